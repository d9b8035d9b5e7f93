package requirement

import (
	"encoding/json"
	"fmt"
)

// Container keys.
const (
	keyAnd  = "and"
	keyOr   = "or"
	keyKind = "kind"
)

// Normalize converts a decoded JSON or YAML requirement specification into a
// tree. A list is an implicit AND, an object with "and" or "or" is an
// explicit container, and any other object is a leaf discriminated by
// "kind". Unknown leaf kinds yield Unsupported leaves rather than errors.
func Normalize(raw any) (Node, error) {
	switch v := raw.(type) {
	case nil:
		return And{}, nil
	case []any:
		children, err := normalizeList(v)
		if err != nil {
			return nil, err
		}
		return And{Children: children}, nil
	case map[string]any:
		return normalizeObject(v)
	default:
		return nil, fmt.Errorf("%w: unexpected %T", ErrMalformed, raw)
	}
}

// NormalizeJSON decodes data and normalizes the result.
func NormalizeJSON(data []byte) (Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return Normalize(raw)
}

func normalizeList(items []any) ([]Node, error) {
	out := make([]Node, 0, len(items))
	for i, item := range items {
		n, err := Normalize(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func normalizeObject(m map[string]any) (Node, error) {
	andRaw, hasAnd := m[keyAnd]
	orRaw, hasOr := m[keyOr]
	switch {
	case hasAnd && hasOr:
		return nil, fmt.Errorf("%w: both %q and %q present", ErrMalformed, keyAnd, keyOr)
	case hasAnd:
		items, ok := andRaw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a list", ErrMalformed, keyAnd)
		}
		children, err := normalizeList(items)
		if err != nil {
			return nil, err
		}
		return And{Children: children}, nil
	case hasOr:
		items, ok := orRaw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a list", ErrMalformed, keyOr)
		}
		children, err := normalizeList(items)
		if err != nil {
			return nil, err
		}
		return Or{Children: children}, nil
	}

	kind, _ := m[keyKind].(string)
	if kind == "" {
		return nil, fmt.Errorf("%w: leaf without %q", ErrMalformed, keyKind)
	}
	spec, err := decodeLeaf(kind, m)
	if err != nil {
		return nil, fmt.Errorf("%s leaf: %w", kind, err)
	}
	return Leaf{Spec: spec}, nil
}

func decodeLeaf(kind string, m map[string]any) (LeafSpec, error) {
	switch kind {
	case KindStreak:
		var s Streak
		if err := decodeInto(m, &s); err != nil {
			return nil, err
		}
		return s, nil
	case KindTimedTask:
		var s TimedTask
		if err := decodeInto(m, &s); err != nil {
			return nil, err
		}
		return s, nil
	case KindMedalCount:
		var s MedalCount
		if err := decodeInto(m, &s); err != nil {
			return nil, err
		}
		return s, nil
	case KindAwardCount:
		var s AwardCount
		if err := decodeInto(m, &s); err != nil {
			return nil, err
		}
		return s, nil
	case KindSustained:
		return decodeSustained(m)
	case KindCustom:
		var s Custom
		if err := decodeInto(m, &s); err != nil {
			return nil, err
		}
		if s.Name == "" {
			return nil, fmt.Errorf("%w: custom leaf without name", ErrMalformed)
		}
		return s, nil
	default:
		return Unsupported{KindName: kind, Raw: m}, nil
	}
}

func decodeSustained(m map[string]any) (LeafSpec, error) {
	var s Sustained
	if err := decodeInto(m, &s); err != nil {
		return nil, err
	}
	if s.RequiredYears < 0 || s.TimeWindowYears < 0 {
		return nil, fmt.Errorf("%w: negative year count", ErrMalformed)
	}
	if raw, ok := m["perYear"]; ok && raw != nil {
		t, err := NormalizeYearTest(raw)
		if err != nil {
			return nil, err
		}
		s.PerYear = t
	}
	return s, nil
}

// NormalizeYearTest converts a decoded per-year specification. A list is an
// implicit "and".
func NormalizeYearTest(raw any) (YearTest, error) {
	switch v := raw.(type) {
	case []any:
		tests, err := normalizeYearList(v)
		if err != nil {
			return nil, err
		}
		return YearAll{Tests: tests}, nil
	case map[string]any:
		if items, ok := v[keyAnd]; ok {
			list, ok := items.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %q must be a list", ErrMalformedYear, keyAnd)
			}
			tests, err := normalizeYearList(list)
			if err != nil {
				return nil, err
			}
			return YearAll{Tests: tests}, nil
		}
		if items, ok := v[keyOr]; ok {
			list, ok := items.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %q must be a list", ErrMalformedYear, keyOr)
			}
			tests, err := normalizeYearList(list)
			if err != nil {
				return nil, err
			}
			return YearAny{Tests: tests}, nil
		}
		return decodeYearLeaf(v)
	default:
		return nil, fmt.Errorf("%w: unexpected %T", ErrMalformedYear, raw)
	}
}

func normalizeYearList(items []any) ([]YearTest, error) {
	out := make([]YearTest, 0, len(items))
	for _, item := range items {
		t, err := NormalizeYearTest(item)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeYearLeaf(m map[string]any) (YearTest, error) {
	kind, _ := m[keyKind].(string)
	switch kind {
	case YearKindReferences:
		var t YearReferences
		if err := decodeInto(m, &t); err != nil {
			return nil, err
		}
		return t, nil
	case YearKindThreshold:
		var t YearThreshold
		if err := decodeInto(m, &t); err != nil {
			return nil, err
		}
		return t, nil
	case YearKindCustom:
		var t YearCustom
		if err := decodeInto(m, &t); err != nil {
			return nil, err
		}
		if t.Name == "" {
			return nil, fmt.Errorf("%w: custom test without name", ErrMalformedYear)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedYear, kind)
	}
}

// decodeInto maps a generic object onto a typed spec through JSON.
func decodeInto(m map[string]any, out any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}
