package fields

import "sort"

// offState is the export value every checkbox can assume.
const offState = "Off"

// StateSource exposes a widget's appearance-state information. The engine's
// Widget satisfies it; tests substitute doubles.
type StateSource interface {
	ButtonStates() (map[string][]string, error)
	NormalAppearanceStates() ([]string, error)
	AnnotationStates() ([]string, error)
}

// stateProbe is one strategy for extracting raw export values. A failing or
// empty probe yields nil and the next probe runs.
type stateProbe func(StateSource) []string

var stateProbes = []stateProbe{
	probeButtonStates,
	probeNormalAppearance,
	probeAnnotation,
}

// ResolveStates determines the full set of export values a checkbox can
// assume. Probes run in order and the first non-empty result wins; when all
// come up empty the set is synthesized from the current value. The result is
// deduplicated, has "Off" first when present, and is never empty.
func ResolveStates(src StateSource, currentValue string) []string {
	for _, probe := range stateProbes {
		if raw := probe(src); len(raw) > 0 {
			return NormalizeStates(raw)
		}
	}

	if currentValue != "" && currentValue != offState {
		return NormalizeStates([]string{offState, currentValue})
	}
	return []string{offState}
}

func probeButtonStates(src StateSource) []string {
	grouped, err := src.ButtonStates()
	if err != nil || len(grouped) == 0 {
		return nil
	}
	return FlattenStates(grouped)
}

func probeNormalAppearance(src StateSource) []string {
	states, err := src.NormalAppearanceStates()
	if err != nil {
		return nil
	}
	return states
}

func probeAnnotation(src StateSource) []string {
	states, err := src.AnnotationStates()
	if err != nil {
		return nil
	}
	return states
}

// FlattenStates collapses a grouped state mapping into one deduplicated
// sequence. Order is not significant here, normalization sorts later.
func FlattenStates(grouped map[string][]string) []string {
	seen := make(map[string]struct{})
	var flat []string
	for _, group := range grouped {
		for _, v := range group {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			flat = append(flat, v)
		}
	}
	return flat
}

// NormalizeStates deduplicates values and orders them with "Off" first and
// everything else in ascending string order. Applying it twice yields the
// same sequence.
func NormalizeStates(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i] != offState, out[j] != offState
		if oi != oj {
			return !oi
		}
		return out[i] < out[j]
	})
	return out
}
