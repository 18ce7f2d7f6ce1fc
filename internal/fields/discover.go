package fields

import (
	"github.com/sirupsen/logrus"

	"github.com/formkit-tools/pdfformkit/internal/engine"
)

// Discoverer extracts form fields from a document in reading order.
type Discoverer struct {
	Log          *logrus.Logger
	DetectLabels bool
}

// Discover returns every named widget in the document as a FormField,
// sorted per page in reading order, with ids assigned 1..N over the whole
// result. targetPage limits extraction to a single 1-based page when
// positive. Failures degrade to an empty (never nil) slice.
func (d *Discoverer) Discover(data []byte, targetPage int) []FormField {
	all := []FormField{}

	doc, err := engine.OpenBytes(data)
	if err != nil {
		d.Log.WithError(err).Error("discovering fields failed")
		return all
	}

	pages, err := doc.Pages()
	if err != nil {
		d.Log.WithError(err).Error("walking page tree failed")
		return all
	}

	var labels *labelIndex
	if d.DetectLabels {
		labels = buildLabelIndex(data, d.Log)
	}

	for i := range pages {
		page := &pages[i]
		if targetPage > 0 && page.Number != targetPage {
			continue
		}

		pageFields := []FormField{}
		for _, w := range page.Widgets() {
			f, ok := d.fieldFromWidget(w, labels)
			if ok {
				pageFields = append(pageFields, f)
			}
		}

		SortReadingOrder(pageFields)
		all = append(all, pageFields...)
	}

	AssignIDs(all)
	return all
}

// DiscoverCheckboxes maps every checkbox field name to its export values.
func (d *Discoverer) DiscoverCheckboxes(data []byte) map[string]CheckboxValues {
	result := map[string]CheckboxValues{}

	doc, err := engine.OpenBytes(data)
	if err != nil {
		d.Log.WithError(err).Error("discovering checkbox values failed")
		return result
	}

	pages, err := doc.Pages()
	if err != nil {
		d.Log.WithError(err).Error("walking page tree failed")
		return result
	}

	for i := range pages {
		for _, w := range pages[i].Widgets() {
			name := w.Name()
			if name == "" || w.Kind() != engine.KindCheckBox {
				continue
			}

			current := w.Value()
			if current == "" {
				current = offState
			}

			result[name] = CheckboxValues{
				Page:           w.Page(),
				CurrentValue:   current,
				PossibleValues: ResolveStates(w, current),
				FieldFlags:     w.Flags(),
			}
		}
	}
	return result
}

func (d *Discoverer) fieldFromWidget(w *engine.Widget, labels *labelIndex) (FormField, bool) {
	name := w.Name()
	if name == "" {
		return FormField{}, false
	}

	x0, y0, x1, y1, err := w.Rect()
	if err != nil {
		d.Log.WithError(err).WithField("field", name).Warn("skipping widget without usable rect")
		return FormField{}, false
	}

	kind := w.Kind()
	yTop := w.PageHeight() - y1
	height := y1 - y0

	f := FormField{
		Page:            w.Page(),
		Name:            name,
		Type:            pdfType(kind),
		FieldType:       string(kind),
		CurrentValue:    w.Value(),
		Choices:         []string{},
		Rect:            []float64{x0, yTop, x1, yTop + height},
		X:               x0,
		Y:               yTop,
		Width:           x1 - x0,
		Height:          height,
		FieldFlags:      w.Flags(),
		PotentialLabels: []string{},
	}

	if kind == engine.KindCheckBox {
		f.Choices = ResolveStates(w, f.CurrentValue)
	}

	if labels != nil {
		f.PotentialLabels = labels.candidatesFor(f.Page, x0, (y0+y1)/2)
		if len(f.PotentialLabels) > 0 {
			f.Label = f.PotentialLabels[0]
		}
	}

	return f, true
}
