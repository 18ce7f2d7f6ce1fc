package fields

import (
	"bytes"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// maxLabelCandidates caps how many label candidates a field reports.
const maxLabelCandidates = 3

// textRun is a merged horizontal run of page text in PDF coordinates.
type textRun struct {
	x, y, right float64
	text        string
}

// labelIndex holds per-page text runs used to guess field labels: for a
// typical "Label: [field]" layout the label is the nearest text run on the
// same row ending left of the widget.
type labelIndex struct {
	runs map[int][]textRun
}

// buildLabelIndex extracts positioned text for every page. Any extraction
// failure yields a nil index and discovery proceeds without labels.
func buildLabelIndex(data []byte, log *logrus.Logger) (idx *labelIndex) {
	// ledongthuc/pdf panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Debug("label text extraction aborted")
			idx = nil
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.WithError(err).Debug("label text extraction unavailable")
		return nil
	}

	idx = &labelIndex{runs: make(map[int][]textRun)}
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		idx.runs[pageNum] = mergeRuns(page.Content().Text)
	}
	return idx
}

// mergeRuns joins per-glyph text items into word runs. Items belong to the
// same run when they share a baseline and the horizontal gap is small
// relative to the font size.
func mergeRuns(items []pdf.Text) []textRun {
	var runs []textRun
	var cur *textRun

	for _, t := range items {
		if strings.TrimSpace(t.S) == "" && cur == nil {
			continue
		}

		gapLimit := t.FontSize
		if gapLimit <= 0 {
			gapLimit = 6
		}

		if cur != nil && math.Abs(t.Y-cur.y) < 0.5 && t.X-cur.right <= gapLimit {
			cur.text += t.S
			cur.right = t.X + t.W
			continue
		}

		if cur != nil {
			runs = appendRun(runs, *cur)
		}
		cur = &textRun{x: t.X, y: t.Y, right: t.X + t.W, text: t.S}
	}
	if cur != nil {
		runs = appendRun(runs, *cur)
	}
	return runs
}

func appendRun(runs []textRun, r textRun) []textRun {
	r.text = strings.TrimSpace(r.text)
	if r.text == "" {
		return runs
	}
	return append(runs, r)
}

// candidatesFor returns up to maxLabelCandidates label texts for a widget at
// (x, yMid) on the given page, nearest first. Coordinates are PDF space
// (bottom-left origin), matching the text index.
func (idx *labelIndex) candidatesFor(page int, x, yMid float64) []string {
	type scored struct {
		gap  float64
		text string
	}

	var candidates []scored
	for _, run := range idx.runs[page] {
		if math.Abs(run.y-yMid) > rowTolerance {
			continue
		}
		gap := x - run.right
		if gap < -2 { // run overlaps or sits right of the widget
			continue
		}
		candidates = append(candidates, scored{gap: gap, text: strings.TrimSuffix(run.text, ":")})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].gap < candidates[j].gap
	})

	out := []string{}
	for _, c := range candidates {
		if len(out) == maxLabelCandidates {
			break
		}
		out = append(out, c.text)
	}
	return out
}
