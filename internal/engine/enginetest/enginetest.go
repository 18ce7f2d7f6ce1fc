// Package enginetest builds small, well-formed AcroForm PDFs in memory for
// tests. Object offsets and the xref table are computed at assembly time so
// the output is byte-accurate without fixture files.
package enginetest

import (
	"bytes"
	"fmt"
)

// FieldSpec describes one widget to place on a test page.
type FieldSpec struct {
	Name  string
	FT    string // "Tx" or "Btn"
	Value string // name for Btn, literal for Tx, empty for unset
	Rect  [4]float64
	// States are the normal appearance state names for Btn fields. Each
	// state is backed by a real form XObject stream, the way viewers
	// write checkboxes.
	States []string
}

// TextField returns a text field spec with the given rectangle.
func TextField(name, value string, x0, y0, x1, y1 float64) FieldSpec {
	return FieldSpec{Name: name, FT: "Tx", Value: value, Rect: [4]float64{x0, y0, x1, y1}}
}

// CheckBox returns a checkbox spec with On/Off appearance states.
func CheckBox(name, value string, x0, y0, x1, y1 float64, states ...string) FieldSpec {
	if len(states) == 0 {
		states = []string{"Off", "Yes"}
	}
	return FieldSpec{Name: name, FT: "Btn", Value: value, Rect: [4]float64{x0, y0, x1, y1}, States: states}
}

// FormPDF assembles a one-page PDF (612x792, MediaBox inherited from the
// page tree node) containing the given form fields as merged widget
// annotations.
func FormPDF(fields ...FieldSpec) []byte {
	return FormPDFPages([][]FieldSpec{fields})
}

// FormPDFPages assembles one page per element of pages, each carrying its
// fields as merged widget annotations. The MediaBox lives on the page tree
// node only, so page height resolution exercises inheritance.
func FormPDFPages(pages [][]FieldSpec) []byte {
	numPages := len(pages)
	totalWidgets := 0
	for _, fs := range pages {
		totalWidgets += len(fs)
	}

	// 1: catalog, 2: pages node, 3..: page dicts, then widgets in page
	// order, then appearance streams, last: acroform.
	firstPage := 3
	firstWidget := firstPage + numPages
	firstAP := firstWidget + totalWidgets

	apCount := 0
	for _, fs := range pages {
		for _, f := range fs {
			if f.FT == "Btn" {
				apCount += len(f.States)
			}
		}
	}
	acroFormNum := firstAP + apCount

	kids := ""
	for i := 0; i < numPages; i++ {
		kids += fmt.Sprintf("%d 0 R ", firstPage+i)
	}

	var objs []string
	objs = append(objs, fmt.Sprintf("<< /Type /Catalog /Pages 2 0 R /AcroForm %d 0 R >>", acroFormNum))
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", kids, numPages))

	var pageObjs, widgetObjs, apObjs []string
	widgetNum := firstWidget
	apNum := firstAP
	fieldRefs := ""
	for _, fs := range pages {
		annots := ""
		for _, f := range fs {
			annots += fmt.Sprintf("%d 0 R ", widgetNum)
			fieldRefs += fmt.Sprintf("%d 0 R ", widgetNum)
			widgetNum++

			body, streams := widgetDict(f, apNum)
			widgetObjs = append(widgetObjs, body)
			apObjs = append(apObjs, streams...)
			apNum += len(streams)
		}
		pageObjs = append(pageObjs, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Annots [%s] >>", annots))
	}

	objs = append(objs, pageObjs...)
	objs = append(objs, widgetObjs...)
	objs = append(objs, apObjs...)
	objs = append(objs, fmt.Sprintf("<< /Fields [%s] >>", fieldRefs))

	return assemble(objs)
}

// widgetDict renders one widget dictionary. Btn appearance states are
// emitted as indirect references starting at apNum; the backing stream
// bodies are returned alongside.
func widgetDict(f FieldSpec, apNum int) (string, []string) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<< /Type /Annot /Subtype /Widget /FT /%s /T (%s) /Rect [%g %g %g %g]",
		f.FT, f.Name, f.Rect[0], f.Rect[1], f.Rect[2], f.Rect[3])

	var streams []string
	if f.FT == "Btn" {
		if f.Value != "" {
			fmt.Fprintf(&b, " /V /%s /AS /%s", f.Value, f.Value)
		}
		if len(f.States) > 0 {
			b.WriteString(" /AP << /N <<")
			for _, s := range f.States {
				fmt.Fprintf(&b, " /%s %d 0 R", s, apNum+len(streams))
				streams = append(streams, appearanceStream())
			}
			b.WriteString(" >> >>")
		}
	} else if f.Value != "" {
		fmt.Fprintf(&b, " /V (%s)", f.Value)
	}

	b.WriteString(" >>")
	return b.String(), streams
}

// appearanceStream is a minimal empty form XObject.
func appearanceStream() string {
	return "<< /Type /XObject /Subtype /Form /BBox [0 0 1 1] /Length 0 >>\nstream\nendstream"
}

func assemble(objs []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xrefPos)

	return buf.Bytes()
}
