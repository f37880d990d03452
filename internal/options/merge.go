package options

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/mitchellh/mapstructure"
)

// Apply merges a partial update into o. Keys may be snake_case or
// camelCase. Keys that are present replace the current value wholesale
// (lists included); absent keys keep theirs. On error o is unchanged.
func (o *Options) Apply(partial map[string]any) error {
	next := *o
	// Slices are replaced, never shared with the previous value.
	next.Steps = append([]StepConfig(nil), o.Steps...)
	next.Hints = append([]HintConfig(nil), o.Hints...)
	next.PositionPrecedence = append([]string(nil), o.PositionPrecedence...)

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.DecodeHookFuncType(targetHook),
	})
	if err != nil {
		return fmt.Errorf("options decoder: %w", err)
	}
	if err := dec.Decode(normalizeKeys(partial)); err != nil {
		return fmt.Errorf("apply options: %w", err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("apply options: %w", err)
	}
	*o = next
	return nil
}

// Set merges a single key.
func (o *Options) Set(key string, value any) error {
	return o.Apply(map[string]any{key: value})
}

// DecodeStep converts a loosely typed map into a step config. A "target"
// key may carry a *dom.Element.
func DecodeStep(m map[string]any) (StepConfig, error) {
	var s StepConfig
	m = normalizeKeys(m)
	target, rest := splitTarget(m)
	if err := decodeInto(rest, &s); err != nil {
		return s, fmt.Errorf("decode step: %w", err)
	}
	s.Target = target
	return s, s.Validate()
}

// DecodeHint converts a loosely typed map into a hint config.
func DecodeHint(m map[string]any) (HintConfig, error) {
	var h HintConfig
	m = normalizeKeys(m)
	target, rest := splitTarget(m)
	if err := decodeInto(rest, &h); err != nil {
		return h, fmt.Errorf("decode hint: %w", err)
	}
	h.Target = target
	return h, nil
}

func decodeInto(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

func splitTarget(m map[string]any) (*dom.Element, map[string]any) {
	el, ok := m["target"].(*dom.Element)
	if !ok {
		return nil, m
	}
	rest := make(map[string]any, len(m))
	for k, v := range m {
		if k != "target" {
			rest[k] = v
		}
	}
	return el, rest
}

var (
	stepType = reflect.TypeOf(StepConfig{})
	hintType = reflect.TypeOf(HintConfig{})
)

// targetHook decodes step and hint maps itself so element pointers survive;
// mapstructure would otherwise copy the element value.
func targetHook(from, to reflect.Type, data any) (any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}
	switch to {
	case stepType:
		return DecodeStep(m)
	case hintType:
		return DecodeHint(m)
	}
	return data, nil
}

// normalizeKeys rewrites map keys to snake_case, recursively.
func normalizeKeys(v map[string]any) map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[snakeCase(k)] = normalizeValue(val)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeKeys(t)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = val
		}
		return normalizeKeys(m)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeKeys(e)
		}
		return out
	}
	return v
}

// snakeCase turns "nextLabel" or "next-label" into "next_label". A run of
// capitals is one word: "transitionDelayMS" becomes "transition_delay_ms".
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if i > 0 && startsWord(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// startsWord reports whether the capital at i begins a new word: it follows
// a lower-case letter or digit, or it ends a run of capitals followed by a
// lower-case letter ("HTMLLabel" splits before the last L).
func startsWord(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '-' || prev == ' ' || prev == '_' {
		return false
	}
	if !unicode.IsUpper(prev) {
		return true
	}
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
