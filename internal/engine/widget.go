package engine

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// FieldKind classifies a widget's underlying form field.
type FieldKind string

const (
	KindText        FieldKind = "Text"
	KindCheckBox    FieldKind = "CheckBox"
	KindRadioButton FieldKind = "RadioButton"
	KindListBox     FieldKind = "ListBox"
	KindComboBox    FieldKind = "ComboBox"
	KindSignature   FieldKind = "Signature"
	KindButton      FieldKind = "Button"
	KindUnknown     FieldKind = "Unknown"
)

// Field flag bits (PDF 32000-1, table 226 and 228).
const (
	flagRadio      = 1 << 15 // bit 16
	flagPushbutton = 1 << 16 // bit 17
	flagCombo      = 1 << 17 // bit 18
)

const maxParentDepth = 32

// Widget is a single widget annotation. Field attributes (name, type, value,
// flags) are resolved through the Parent chain where the widget does not
// carry them itself.
type Widget struct {
	doc   *Document
	annot types.Dict
	page  *Page
}

// Page returns the 1-based page number the widget sits on.
func (w *Widget) Page() int {
	return w.page.Number
}

// PageHeight returns the height of the widget's page in PDF units.
func (w *Widget) PageHeight() float64 {
	return w.page.Height
}

// Name returns the fully qualified field name, joining partial names along
// the Parent chain with dots. Empty if the field is unnamed.
func (w *Widget) Name() string {
	var parts []string
	dict := w.annot
	for depth := 0; dict != nil && depth < maxParentDepth; depth++ {
		if tObj, found := dict.Find("T"); found {
			if t, err := w.doc.ctx.DereferenceStringOrHexLiteral(tObj, model.V10, nil); err == nil && t != "" {
				parts = append([]string{t}, parts...)
			}
		}
		dict = w.parentOf(dict)
	}
	return strings.Join(parts, ".")
}

// Kind determines the field type from the FT entry, following Parent
// inheritance, with button subtypes split out via the field flags.
func (w *Widget) Kind() FieldKind {
	ftDict := w.findInherited("FT")
	if ftDict == nil {
		return KindUnknown
	}
	ftObj, _ := ftDict.Find("FT")
	ft, err := w.doc.ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return KindUnknown
	}

	switch string(ft) {
	case "Btn":
		flags := w.Flags()
		if flags&flagRadio != 0 {
			return KindRadioButton
		}
		if flags&flagPushbutton != 0 {
			return KindButton
		}
		return KindCheckBox
	case "Tx":
		return KindText
	case "Ch":
		if w.Flags()&flagCombo != 0 {
			return KindComboBox
		}
		return KindListBox
	case "Sig":
		return KindSignature
	default:
		return KindUnknown
	}
}

// Flags returns the field flags (Ff), inherited via Parent, 0 if absent.
func (w *Widget) Flags() int {
	dict := w.findInherited("Ff")
	if dict == nil {
		return 0
	}
	ffObj, _ := dict.Find("Ff")
	flags, err := w.doc.ctx.DereferenceInteger(ffObj)
	if err != nil || flags == nil {
		return 0
	}
	return int(*flags)
}

// Value returns the field's current value as a string, empty if unset.
// Name objects (checkbox/radio states) and text strings are both handled.
func (w *Widget) Value() string {
	dict := w.findInherited("V")
	if dict == nil {
		return ""
	}
	vObj, _ := dict.Find("V")

	if name, err := w.doc.ctx.DereferenceName(vObj, model.V10, nil); err == nil {
		return string(name)
	}
	if s, err := w.doc.ctx.DereferenceStringOrHexLiteral(vObj, model.V10, nil); err == nil {
		return s
	}
	return ""
}

// Rect returns the widget rectangle as (x0, y0, x1, y1) in the engine's
// native bottom-left-origin coordinates.
func (w *Widget) Rect() (x0, y0, x1, y1 float64, err error) {
	rectObj, found := w.annot.Find("Rect")
	if !found {
		return 0, 0, 0, 0, &WidgetAccessError{Field: w.Name(), Op: "rect", Err: fmt.Errorf("widget has no Rect entry")}
	}

	coords := w.doc.numbersFromArrayObj(rectObj, 4)
	if coords == nil {
		return 0, 0, 0, 0, &WidgetAccessError{Field: w.Name(), Op: "rect", Err: fmt.Errorf("malformed Rect array")}
	}

	// Normalize, Rect corners may come in any order.
	x0, x1 = coords[0], coords[2]
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 = coords[1], coords[3]
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return x0, y0, x1, y1, nil
}

// ButtonStates returns the widget's appearance states grouped by appearance
// stream role ("normal", "down"), mirroring the engine's native button
// states accessor.
func (w *Widget) ButtonStates() (map[string][]string, error) {
	apDict := w.appearanceDict(w.fieldDict())
	if apDict == nil {
		return nil, nil
	}

	states := map[string][]string{}
	if names := w.stateNames(apDict, "N"); len(names) > 0 {
		states["normal"] = names
	}
	if names := w.stateNames(apDict, "D"); len(names) > 0 {
		states["down"] = names
	}
	if len(states) == 0 {
		return nil, nil
	}
	return states, nil
}

// NormalAppearanceStates returns the key set of the field's normal
// appearance dictionary.
func (w *Widget) NormalAppearanceStates() ([]string, error) {
	apDict := w.appearanceDict(w.fieldDict())
	if apDict == nil {
		return nil, nil
	}
	return w.stateNames(apDict, "N"), nil
}

// AnnotationStates probes the raw annotation dictionary itself, for widgets
// whose appearance lives below the field dictionary.
func (w *Widget) AnnotationStates() ([]string, error) {
	apDict := w.appearanceDict(w.annot)
	if apDict == nil {
		return nil, nil
	}
	return w.stateNames(apDict, "N"), nil
}

// SetValue writes a new value into the field. Button fields get V and AS as
// name objects, everything else gets V as a string literal. Literals are
// written UTF-16 encoded and escaped; the writer serializes them verbatim,
// so an unescaped ")" or "\" would corrupt the surrounding dictionary.
func (w *Widget) SetValue(value string) error {
	target := w.fieldDict()
	if target == nil {
		return &WidgetAccessError{Field: w.Name(), Op: "set value", Err: fmt.Errorf("no field dictionary")}
	}

	switch w.Kind() {
	case KindCheckBox, KindRadioButton:
		target["V"] = types.Name(value)
		w.annot["AS"] = types.Name(value)
	case KindButton:
		return &WidgetAccessError{Field: w.Name(), Op: "set value", Err: fmt.Errorf("pushbuttons hold no value")}
	default:
		s, err := types.EscapedUTF16String(value)
		if err != nil {
			return &WidgetAccessError{Field: w.Name(), Op: "set value", Err: err}
		}
		target["V"] = types.StringLiteral(*s)
	}

	w.doc.ensureNeedAppearances()
	return nil
}

// fieldDict returns the dictionary that owns the field's T entry: the
// annotation itself for merged widgets, otherwise the nearest named parent.
func (w *Widget) fieldDict() types.Dict {
	dict := w.annot
	for depth := 0; dict != nil && depth < maxParentDepth; depth++ {
		if _, found := dict.Find("T"); found {
			return dict
		}
		dict = w.parentOf(dict)
	}
	return w.annot
}

// findInherited walks from the annotation up the Parent chain and returns
// the first dictionary carrying the given key.
func (w *Widget) findInherited(key string) types.Dict {
	dict := w.annot
	for depth := 0; dict != nil && depth < maxParentDepth; depth++ {
		if _, found := dict.Find(key); found {
			return dict
		}
		dict = w.parentOf(dict)
	}
	return nil
}

func (w *Widget) parentOf(dict types.Dict) types.Dict {
	parentObj, found := dict.Find("Parent")
	if !found {
		return nil
	}
	parent, err := w.doc.ctx.DereferenceDict(parentObj)
	if err != nil {
		return nil
	}
	return parent
}

// appearanceDict resolves the AP dictionary of the given dict, following the
// Parent chain when the dict itself carries none.
func (w *Widget) appearanceDict(dict types.Dict) types.Dict {
	for depth := 0; dict != nil && depth < maxParentDepth; depth++ {
		if apObj, found := dict.Find("AP"); found {
			ap, err := w.doc.ctx.DereferenceDict(apObj)
			if err == nil {
				return ap
			}
			return nil
		}
		dict = w.parentOf(dict)
	}
	return nil
}

// stateNames returns the key set of AP's sub-dictionary for the given role
// ("N" or "D"). A stream-valued entry (text field appearance) yields nil.
func (w *Widget) stateNames(apDict types.Dict, role string) []string {
	roleObj, found := apDict.Find(role)
	if !found {
		return nil
	}
	roleDict, err := w.doc.ctx.DereferenceDict(roleObj)
	if err != nil || roleDict == nil {
		return nil
	}

	names := make([]string, 0, len(roleDict))
	for name := range roleDict {
		names = append(names, name)
	}
	return names
}
