package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formkit-tools/pdfformkit/internal/engine/enginetest"
)

func TestFillAndVerify(t *testing.T) {
	data := enginetest.FormPDF(
		enginetest.TextField("name", "", 50, 700, 200, 720),
		enginetest.CheckBox("agree", "Off", 50, 650, 65, 665),
	)

	filler := &Filler{Log: quietLogger()}
	filled, count, err := filler.Fill(data, map[string]string{
		"name":  "Jane",
		"agree": "Yes",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NotEmpty(t, filled)

	byName := map[string]VerifiedField{}
	for _, f := range Verify(filled, quietLogger()) {
		byName[f.Name] = f
	}

	require.Contains(t, byName, "name")
	assert.Equal(t, "Jane", byName["name"].Value)
	assert.Equal(t, "Text", byName["name"].Type)
	assert.Equal(t, 1, byName["name"].Page)

	require.Contains(t, byName, "agree")
	assert.Equal(t, "Yes", byName["agree"].Value)
}

func TestFillPreservesDelimiterCharacters(t *testing.T) {
	data := enginetest.FormPDF(
		enginetest.TextField("comment", "", 50, 700, 200, 720),
		enginetest.TextField("path", "", 50, 650, 200, 670),
	)

	filler := &Filler{Log: quietLogger()}
	filled, count, err := filler.Fill(data, map[string]string{
		"comment": "Smile :)",
		"path":    `C:\Users\Jane`,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	byName := map[string]string{}
	for _, f := range Verify(filled, quietLogger()) {
		byName[f.Name] = f.Value
	}
	assert.Equal(t, "Smile :)", byName["comment"])
	assert.Equal(t, `C:\Users\Jane`, byName["path"])
}

func TestFillIgnoresUnknownFields(t *testing.T) {
	data := enginetest.FormPDF(enginetest.TextField("name", "", 50, 700, 200, 720))

	filler := &Filler{Log: quietLogger()}
	filled, count, err := filler.Fill(data, map[string]string{"missing": "x"})

	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NotEmpty(t, filled, "document still round-trips")
}

func TestFillUnreadableInput(t *testing.T) {
	filler := &Filler{Log: quietLogger()}

	_, _, err := filler.Fill([]byte("junk"), map[string]string{"a": "b"})

	require.Error(t, err)
}

func TestVerifyUnreadableInput(t *testing.T) {
	result := Verify([]byte("junk"), quietLogger())

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestParseValueMap(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "strings_pass_through",
			raw:  `{"name":"Jane","city":"Oslo"}`,
			want: map[string]string{"name": "Jane", "city": "Oslo"},
		},
		{
			name: "numbers_and_bools_coerced",
			raw:  `{"age":25,"height":1.75,"agree":true}`,
			want: map[string]string{"age": "25", "height": "1.75", "agree": "true"},
		},
		{
			name: "null_becomes_empty",
			raw:  `{"clear":null}`,
			want: map[string]string{"clear": ""},
		},
		{
			name: "empty_object",
			raw:  `{}`,
			want: map[string]string{},
		},
		{
			name:    "not_an_object",
			raw:     `["a","b"]`,
			wantErr: true,
		},
		{
			name:    "nested_values_rejected",
			raw:     `{"bad":{"x":1}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValueMap([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
