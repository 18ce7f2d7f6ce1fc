// Package engine wraps the pdfcpu object model behind a small
// document/page/widget surface. All structural PDF parsing, validation and
// re-serialization is delegated to pdfcpu; this package only walks and
// mutates the dictionaries it exposes.
package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const maxPageTreeDepth = 64

// Document is an open PDF backed by a pdfcpu context.
type Document struct {
	ctx *model.Context
}

// Open reads a PDF from an io.ReadSeeker using relaxed validation.
func Open(rs io.ReadSeeker) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, &DocumentOpenError{Op: "read context", Err: err}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &DocumentOpenError{Op: "ensure page count", Err: err}
	}

	return &Document{ctx: ctx}, nil
}

// OpenBytes opens a PDF held in memory.
func OpenBytes(data []byte) (*Document, error) {
	return Open(bytes.NewReader(data))
}

// OpenFile opens a PDF from a file path.
func OpenFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DocumentOpenError{Op: "open file", Err: err}
	}
	defer f.Close()

	return Open(f)
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Write re-serializes the (possibly mutated) document.
func (d *Document) Write(w io.Writer) error {
	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("engine: write context: %w", err)
	}
	return nil
}

// Page is a single page with its widget annotations resolved.
type Page struct {
	Number  int // 1-based
	Height  float64
	widgets []*Widget
}

// Widgets returns the page's widget annotations in discovery order.
func (p *Page) Widgets() []*Widget {
	return p.widgets
}

// Pages walks the page tree in document order and collects every page
// together with its widget annotations. MediaBox is resolved through the
// usual page tree inheritance.
func (d *Document) Pages() ([]Page, error) {
	rootDict, err := d.ctx.Catalog()
	if err != nil {
		return nil, &DocumentOpenError{Op: "catalog", Err: err}
	}

	pagesObj, found := rootDict.Find("Pages")
	if !found {
		return nil, &DocumentOpenError{Op: "page tree", Err: fmt.Errorf("catalog has no Pages entry")}
	}

	var pages []Page
	if err := d.walkPageTree(pagesObj, nil, &pages, 0); err != nil {
		return nil, err
	}
	return pages, nil
}

// walkPageTree recurses through Pages nodes, carrying the inherited MediaBox.
func (d *Document) walkPageTree(nodeObj types.Object, mediaBox []float64, pages *[]Page, depth int) error {
	if depth > maxPageTreeDepth {
		return &DocumentOpenError{Op: "page tree", Err: fmt.Errorf("page tree deeper than %d levels", maxPageTreeDepth)}
	}

	nodeDict, err := d.ctx.DereferenceDict(nodeObj)
	if err != nil || nodeDict == nil {
		return &DocumentOpenError{Op: "page tree", Err: fmt.Errorf("unresolvable page tree node: %v", err)}
	}

	if mbObj, found := nodeDict.Find("MediaBox"); found {
		if mb := d.numbersFromArrayObj(mbObj, 4); mb != nil {
			mediaBox = mb
		}
	}

	nodeType := ""
	if typeObj, found := nodeDict.Find("Type"); found {
		if name, err := d.ctx.DereferenceName(typeObj, model.V10, nil); err == nil {
			nodeType = string(name)
		}
	}

	if nodeType == "Pages" {
		kidsObj, found := nodeDict.Find("Kids")
		if !found {
			return nil
		}
		kids, err := d.ctx.DereferenceArray(kidsObj)
		if err != nil {
			return &DocumentOpenError{Op: "page tree", Err: err}
		}
		for _, kid := range kids {
			if err := d.walkPageTree(kid, mediaBox, pages, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	// Leaf page. Some writers omit /Type on page dicts, so anything that is
	// not a Pages node is treated as a page.
	height := 792.0 // US Letter fallback
	if len(mediaBox) == 4 {
		height = mediaBox[3] - mediaBox[1]
	}

	page := Page{
		Number: len(*pages) + 1,
		Height: height,
	}
	page.widgets = d.collectWidgets(nodeDict, &page)
	*pages = append(*pages, page)
	return nil
}

// collectWidgets gathers the widget annotations of one page dict.
func (d *Document) collectWidgets(pageDict types.Dict, page *Page) []*Widget {
	annotsObj, found := pageDict.Find("Annots")
	if !found {
		return nil
	}

	annots, err := d.ctx.DereferenceArray(annotsObj)
	if err != nil {
		return nil
	}

	var widgets []*Widget
	for _, annotRef := range annots {
		annotDict, err := d.ctx.DereferenceDict(annotRef)
		if err != nil || annotDict == nil {
			continue
		}

		subtypeObj, found := annotDict.Find("Subtype")
		if !found {
			continue
		}
		subtype, err := d.ctx.DereferenceName(subtypeObj, model.V10, nil)
		if err != nil || string(subtype) != "Widget" {
			continue
		}

		widgets = append(widgets, &Widget{
			doc:   d,
			annot: annotDict,
			page:  page,
		})
	}
	return widgets
}

// ensureNeedAppearances flags the AcroForm dictionary so that viewers
// regenerate field appearance streams after a value change.
func (d *Document) ensureNeedAppearances() {
	rootDict, err := d.ctx.Catalog()
	if err != nil {
		return
	}

	acroObj, found := rootDict.Find("AcroForm")
	if !found {
		return
	}

	acroDict, err := d.ctx.DereferenceDict(acroObj)
	if err != nil || acroDict == nil {
		return
	}
	acroDict["NeedAppearances"] = types.Boolean(true)
}

// numbersFromArrayObj resolves an array of exactly n numbers, or nil.
func (d *Document) numbersFromArrayObj(obj types.Object, n int) []float64 {
	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil || len(arr) != n {
		return nil
	}

	nums := make([]float64, n)
	for i, item := range arr {
		f, err := d.ctx.DereferenceNumber(item)
		if err != nil {
			return nil
		}
		nums[i] = f
	}
	return nums
}
