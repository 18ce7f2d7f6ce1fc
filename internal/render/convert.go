// Package render converts PDF pages to JPEG images via MuPDF (go-fitz).
// Rasterization itself is the engine's job; this package owns page
// selection, resource caps, encoding and optional persistence.
package render

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/sirupsen/logrus"

	"github.com/formkit-tools/pdfformkit/internal/engine"
)

const outputDirPerm = 0o750

// Options bound the conversion work.
type Options struct {
	// PageCeiling rejects whole documents larger than this outright.
	PageCeiling int
	// MaxPages caps how many pages one invocation converts.
	MaxPages int
	// DPI is the rasterization resolution.
	DPI float64
	// Quality is the JPEG encoder quality (1-100).
	Quality int
}

// DefaultOptions mirrors the limits the conversion utility ships with.
func DefaultOptions() Options {
	return Options{
		PageCeiling: 100,
		MaxPages:    50,
		DPI:         96,
		Quality:     85,
	}
}

// PageImage is one converted page, JPEG bytes base64-encoded for JSON
// transport.
type PageImage struct {
	Page   int    `json:"page"`
	Format string `json:"format"`
	Data   string `json:"data"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	SizeKB int    `json:"size_kb"`
}

// Converter rasterizes pages under the configured caps.
type Converter struct {
	Opts Options
	Log  *logrus.Logger
}

// pageSource is the slice of the rasterizer the converter needs.
// *fitz.Document satisfies it.
type pageSource interface {
	NumPage() int
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
}

// Convert renders the requested pages (1-based; nil means the leading pages
// up to MaxPages) to JPEG. Documents over the page ceiling yield an empty
// result and a diagnostic without touching any page. Per-page failures are
// logged and skipped.
func (c *Converter) Convert(data []byte, pages []int) []PageImage {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		c.Log.WithError(err).Error("converting PDF to images failed")
		return []PageImage{}
	}
	defer doc.Close()

	return c.convertFrom(doc, pages)
}

func (c *Converter) convertFrom(doc pageSource, pages []int) []PageImage {
	images := []PageImage{}

	total := doc.NumPage()
	c.Log.WithField("pages", total).Debug("document opened")

	if total > c.Opts.PageCeiling {
		c.Log.WithError(engine.ErrPageLimit).WithFields(logrus.Fields{
			"pages":   total,
			"ceiling": c.Opts.PageCeiling,
		}).Error("document too large")
		return images
	}

	selected, skipped := SelectPages(total, pages, c.Opts.MaxPages)
	for _, p := range skipped {
		c.Log.WithField("page", p).Warn("requested page does not exist, skipping")
	}
	c.Log.WithField("count", len(selected)).Debug("converting pages")

	for _, pageNum := range selected {
		img, err := c.renderPage(doc, pageNum)
		if err != nil {
			c.Log.WithError(err).WithField("page", pageNum).Warn("page conversion failed, skipping")
			continue
		}
		images = append(images, img)
	}

	c.Log.WithField("count", len(images)).Debug("conversion finished")
	return images
}

func (c *Converter) renderPage(doc pageSource, pageNum int) (PageImage, error) {
	img, err := doc.ImageDPI(pageNum-1, c.Opts.DPI)
	if err != nil {
		return PageImage{}, fmt.Errorf("rasterize page %d: %w", pageNum, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.Opts.Quality}); err != nil {
		return PageImage{}, fmt.Errorf("encode page %d: %w", pageNum, err)
	}

	bounds := img.Bounds()
	return PageImage{
		Page:   pageNum,
		Format: "jpeg",
		Data:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		SizeKB: buf.Len() / 1024,
	}, nil
}

// SelectPages resolves the pages to convert. With no explicit request the
// leading min(total, maxPages) pages are chosen; an explicit list is
// truncated to maxPages and out-of-range entries are reported in skipped.
func SelectPages(total int, requested []int, maxPages int) (selected, skipped []int) {
	if len(requested) == 0 {
		n := total
		if n > maxPages {
			n = maxPages
		}
		for p := 1; p <= n; p++ {
			selected = append(selected, p)
		}
		return selected, nil
	}

	if len(requested) > maxPages {
		requested = requested[:maxPages]
	}
	for _, p := range requested {
		if p < 1 || p > total {
			skipped = append(skipped, p)
			continue
		}
		selected = append(selected, p)
	}
	return selected, skipped
}

// ParsePagesArg decodes the optional pages argument: either a single
// 1-based integer or a JSON array of them. Non-positive entries are
// dropped.
func ParsePagesArg(arg string) ([]int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}

	if strings.HasPrefix(arg, "[") {
		var pages []int
		if err := json.Unmarshal([]byte(arg), &pages); err != nil {
			return nil, fmt.Errorf("invalid pages argument: %w", err)
		}
		out := pages[:0]
		for _, p := range pages {
			if p > 0 {
				out = append(out, p)
			}
		}
		return out, nil
	}

	p, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid pages argument: %w", err)
	}
	if p < 1 {
		return nil, nil
	}
	return []int{p}, nil
}

// SaveAll persists converted pages as page_NN.<format> files under dir,
// creating it as needed.
func SaveAll(images []PageImage, dir string, log *logrus.Logger) error {
	if err := os.MkdirAll(dir, outputDirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, img := range images {
		raw, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return fmt.Errorf("decode page %d image: %w", img.Page, err)
		}

		name := filepath.Join(dir, fmt.Sprintf("page_%02d.%s", img.Page, img.Format))
		if err := os.WriteFile(name, raw, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		log.WithFields(logrus.Fields{"file": name, "size_kb": img.SizeKB}).Debug("saved page image")
	}
	return nil
}
