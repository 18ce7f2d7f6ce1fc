// Package fields discovers, orders and mutates interactive form fields. The
// heavy lifting (parsing, widget traversal, persistence) is delegated to the
// engine package; this package owns the reading-order sort, the checkbox
// export-value resolver and the JSON shapes the CLI utilities emit.
package fields

import "github.com/formkit-tools/pdfformkit/internal/engine"

// FormField is one discovered widget, shaped for JSON output. Coordinates
// are top-left origin (converted from the engine's bottom-left origin).
type FormField struct {
	Page            int       `json:"page"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	FieldType       string    `json:"field_type"`
	CurrentValue    string    `json:"current_value"`
	Choices         []string  `json:"choices"`
	Rect            []float64 `json:"rect"`
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	Width           float64   `json:"width"`
	Height          float64   `json:"height"`
	FieldFlags      int       `json:"field_flags"`
	Label           string    `json:"label"`
	PotentialLabels []string  `json:"potential_labels"`
	ID              int       `json:"id"`
}

// CheckboxValues is the per-checkbox record emitted by pdf_checkbox_values.
type CheckboxValues struct {
	Page           int      `json:"page"`
	CurrentValue   string   `json:"current_value"`
	PossibleValues []string `json:"possible_values"`
	FieldFlags     int      `json:"field_flags"`
}

// VerifiedField is one field's state as re-read from a document.
type VerifiedField struct {
	Name  string `json:"-"`
	Value string `json:"value"`
	Type  string `json:"type"`
	Page  int    `json:"page"`
}

// pdfType maps a field kind to the annotation type tag downstream
// consumers key off. Everything that is not a checkbox or signature is
// reported as text.
func pdfType(kind engine.FieldKind) string {
	switch kind {
	case engine.KindCheckBox:
		return "/Btn"
	case engine.KindSignature:
		return "/Sig"
	default:
		return "/Tx"
	}
}
