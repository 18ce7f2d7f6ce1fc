package fields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeStates records which probes ran, so fallback order is observable.
type fakeStates struct {
	buttonStates map[string][]string
	buttonErr    error
	normal       []string
	normalErr    error
	annotation   []string
	annotErr     error
	calls        []string
}

func (f *fakeStates) ButtonStates() (map[string][]string, error) {
	f.calls = append(f.calls, "button")
	return f.buttonStates, f.buttonErr
}

func (f *fakeStates) NormalAppearanceStates() ([]string, error) {
	f.calls = append(f.calls, "normal")
	return f.normal, f.normalErr
}

func (f *fakeStates) AnnotationStates() ([]string, error) {
	f.calls = append(f.calls, "annotation")
	return f.annotation, f.annotErr
}

func TestResolveStates(t *testing.T) {
	tests := []struct {
		name    string
		src     *fakeStates
		current string
		want    []string
	}{
		{
			name:    "button_states_win",
			src:     &fakeStates{buttonStates: map[string][]string{"normal": {"Yes", "Off"}}},
			current: "Off",
			want:    []string{"Off", "Yes"},
		},
		{
			name:    "falls_through_to_normal_appearance",
			src:     &fakeStates{normal: []string{"On", "Off"}},
			current: "",
			want:    []string{"Off", "On"},
		},
		{
			name:    "falls_through_to_annotation",
			src:     &fakeStates{annotation: []string{"Checked", "Off"}},
			current: "",
			want:    []string{"Off", "Checked"},
		},
		{
			name:    "probe_errors_treated_as_empty",
			src:     &fakeStates{buttonErr: errors.New("no handle"), normalErr: errors.New("no AP"), annotation: []string{"Yes"}},
			current: "",
			want:    []string{"Yes"},
		},
		{
			name:    "synthesized_from_current_value",
			src:     &fakeStates{},
			current: "Yes",
			want:    []string{"Off", "Yes"},
		},
		{
			name:    "synthesized_off_only_when_value_unknown",
			src:     &fakeStates{},
			current: "",
			want:    []string{"Off"},
		},
		{
			name:    "synthesized_off_only_when_value_is_off",
			src:     &fakeStates{},
			current: "Off",
			want:    []string{"Off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveStates(tt.src, tt.current)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got, "resolver must never return an empty set")
		})
	}
}

func TestResolveStatesFallbackMonotonicity(t *testing.T) {
	src := &fakeStates{buttonStates: map[string][]string{"normal": {"Yes", "Off"}}}

	ResolveStates(src, "Off")

	assert.Equal(t, []string{"button"}, src.calls,
		"later strategies must not run once one yields values")
}

func TestFlattenStates(t *testing.T) {
	flat := FlattenStates(map[string][]string{
		"normal": {"Yes", "Off"},
		"down":   {"Yes", "Off"},
	})

	assert.ElementsMatch(t, []string{"Yes", "Off"}, flat)
}

func TestNormalizeStates(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{
			name:   "off_sorts_first",
			values: []string{"Yes", "Off", "Maybe"},
			want:   []string{"Off", "Maybe", "Yes"},
		},
		{
			name:   "without_off_plain_ascending",
			values: []string{"Zeta", "Alpha"},
			want:   []string{"Alpha", "Zeta"},
		},
		{
			name:   "deduplicates",
			values: []string{"Yes", "Yes", "Off", "Off"},
			want:   []string{"Off", "Yes"},
		},
		{
			name:   "empty",
			values: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeStates(tt.values)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeStatesIdempotent(t *testing.T) {
	once := NormalizeStates([]string{"Yes", "Off", "No", "Yes"})
	twice := NormalizeStates(once)

	assert.Equal(t, once, twice)
}
