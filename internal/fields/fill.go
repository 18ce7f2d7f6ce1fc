package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/formkit-tools/pdfformkit/internal/engine"
)

// Filler writes new values into a document's form fields.
type Filler struct {
	Log *logrus.Logger
}

// Fill sets every widget whose field name appears in values and returns the
// re-serialized document. Per-widget failures are logged and skipped; only a
// failure to open or write the document is returned as an error.
func (f *Filler) Fill(data []byte, values map[string]string) ([]byte, int, error) {
	doc, err := engine.OpenBytes(data)
	if err != nil {
		return nil, 0, err
	}

	pages, err := doc.Pages()
	if err != nil {
		return nil, 0, err
	}

	filled := 0
	for i := range pages {
		page := &pages[i]
		for _, w := range page.Widgets() {
			name := w.Name()
			value, ok := values[name]
			if name == "" || !ok {
				continue
			}

			if err := w.SetValue(value); err != nil {
				f.Log.WithError(err).WithFields(logrus.Fields{
					"page":  page.Number,
					"field": name,
				}).Warn("could not set field")
				continue
			}

			filled++
			f.Log.WithFields(logrus.Fields{
				"page":  page.Number,
				"field": name,
				"value": value,
			}).Debug("set field")
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), filled, nil
}

// Verify re-reads a document and reports every named field's current state
// in discovery order. Failures degrade to an empty slice.
func Verify(data []byte, log *logrus.Logger) []VerifiedField {
	doc, err := engine.OpenBytes(data)
	if err != nil {
		log.WithError(err).Error("verification failed")
		return []VerifiedField{}
	}
	return verifyDoc(doc, log)
}

// VerifyFile is Verify for an on-disk document.
func VerifyFile(path string, log *logrus.Logger) []VerifiedField {
	doc, err := engine.OpenFile(path)
	if err != nil {
		log.WithError(err).Error("verification failed")
		return []VerifiedField{}
	}
	return verifyDoc(doc, log)
}

func verifyDoc(doc *engine.Document, log *logrus.Logger) []VerifiedField {
	out := []VerifiedField{}

	pages, err := doc.Pages()
	if err != nil {
		log.WithError(err).Error("walking page tree failed")
		return out
	}

	for i := range pages {
		for _, w := range pages[i].Widgets() {
			name := w.Name()
			if name == "" {
				continue
			}
			out = append(out, VerifiedField{
				Name:  name,
				Value: w.Value(),
				Type:  string(w.Kind()),
				Page:  w.Page(),
			})
		}
	}
	return out
}

// ParseValueMap decodes the fill argument, a JSON object mapping field name
// to value. Strings pass through; numbers and booleans are coerced to their
// string forms.
func ParseValueMap(raw []byte) (map[string]string, error) {
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("field values must be a JSON object: %w", err)
	}

	values := make(map[string]string, len(decoded))
	for name, v := range decoded {
		switch val := v.(type) {
		case string:
			values[name] = val
		case float64:
			values[name] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			values[name] = strconv.FormatBool(val)
		case nil:
			values[name] = ""
		default:
			return nil, fmt.Errorf("field %q has unsupported value type %T", name, v)
		}
	}
	return values, nil
}
