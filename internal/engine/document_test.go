package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formkit-tools/pdfformkit/internal/engine/enginetest"
)

func TestOpenBytesRejectsGarbage(t *testing.T) {
	_, err := OpenBytes([]byte("not a pdf"))

	require.Error(t, err)
	var openErr *DocumentOpenError
	assert.ErrorAs(t, err, &openErr)
}

func TestDocumentPages(t *testing.T) {
	data := enginetest.FormPDF(
		enginetest.TextField("name", "", 50, 700, 200, 720),
		enginetest.CheckBox("agree", "Off", 50, 650, 65, 665),
	)

	doc, err := OpenBytes(data)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())

	pages, err := doc.Pages()
	require.NoError(t, err)
	require.Len(t, pages, 1)

	page := pages[0]
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 792.0, page.Height, "MediaBox height inherited from the page tree node")
	assert.Len(t, page.Widgets(), 2)
}

func TestWidgetAccessors(t *testing.T) {
	data := enginetest.FormPDF(
		enginetest.TextField("applicant", "Jane", 50, 700, 200, 720),
		enginetest.CheckBox("agree", "Yes", 50, 650, 65, 665, "Off", "Yes"),
	)

	doc, err := OpenBytes(data)
	require.NoError(t, err)
	pages, err := doc.Pages()
	require.NoError(t, err)
	widgets := pages[0].Widgets()
	require.Len(t, widgets, 2)

	text, box := widgets[0], widgets[1]

	assert.Equal(t, "applicant", text.Name())
	assert.Equal(t, KindText, text.Kind())
	assert.Equal(t, "Jane", text.Value())
	assert.Equal(t, 1, text.Page())

	x0, y0, x1, y1, err := text.Rect()
	require.NoError(t, err)
	assert.Equal(t, 50.0, x0)
	assert.Equal(t, 700.0, y0)
	assert.Equal(t, 200.0, x1)
	assert.Equal(t, 720.0, y1)

	assert.Equal(t, "agree", box.Name())
	assert.Equal(t, KindCheckBox, box.Kind())
	assert.Equal(t, "Yes", box.Value())

	states, err := box.NormalAppearanceStates()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Off", "Yes"}, states)

	grouped, err := box.ButtonStates()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Off", "Yes"}, grouped["normal"])
}

func TestWidgetWithoutAppearanceStates(t *testing.T) {
	data := enginetest.FormPDF(enginetest.TextField("plain", "", 10, 10, 60, 30))

	doc, err := OpenBytes(data)
	require.NoError(t, err)
	pages, err := doc.Pages()
	require.NoError(t, err)
	w := pages[0].Widgets()[0]

	states, err := w.NormalAppearanceStates()
	require.NoError(t, err)
	assert.Empty(t, states)

	grouped, err := w.ButtonStates()
	require.NoError(t, err)
	assert.Empty(t, grouped)
}

func TestSetValueRoundTrip(t *testing.T) {
	data := enginetest.FormPDF(
		enginetest.TextField("name", "", 50, 700, 200, 720),
		enginetest.CheckBox("agree", "Off", 50, 650, 65, 665),
	)

	doc, err := OpenBytes(data)
	require.NoError(t, err)
	pages, err := doc.Pages()
	require.NoError(t, err)

	for _, w := range pages[0].Widgets() {
		switch w.Name() {
		case "name":
			require.NoError(t, w.SetValue("Jane"))
		case "agree":
			require.NoError(t, w.SetValue("Yes"))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))

	// Re-open the written bytes and confirm the values survived.
	reopened, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	repages, err := reopened.Pages()
	require.NoError(t, err)

	values := map[string]string{}
	for _, w := range repages[0].Widgets() {
		values[w.Name()] = w.Value()
	}
	assert.Equal(t, "Jane", values["name"])
	assert.Equal(t, "Yes", values["agree"])
}

func TestSetValueRoundTripsDelimiterCharacters(t *testing.T) {
	data := enginetest.FormPDF(
		enginetest.TextField("comment", "", 50, 700, 200, 720),
		enginetest.TextField("path", "", 50, 650, 200, 670),
	)

	doc, err := OpenBytes(data)
	require.NoError(t, err)
	pages, err := doc.Pages()
	require.NoError(t, err)

	// Parentheses and backslashes are string delimiters in the output
	// syntax; unescaped they truncate the literal or vanish.
	want := map[string]string{
		"comment": "Smile :)",
		"path":    `C:\Users\Jane`,
	}
	for _, w := range pages[0].Widgets() {
		require.NoError(t, w.SetValue(want[w.Name()]))
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))

	reopened, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	repages, err := reopened.Pages()
	require.NoError(t, err)
	require.Len(t, repages[0].Widgets(), 2, "widgets must survive the rewrite intact")

	got := map[string]string{}
	for _, w := range repages[0].Widgets() {
		got[w.Name()] = w.Value()
	}
	assert.Equal(t, want, got)
}
