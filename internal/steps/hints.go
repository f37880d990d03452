package steps

import (
	"fmt"
	"strconv"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/options"
)

// Hint annotation attributes.
const (
	AttrHint          = "data-hint"
	AttrHintPosition  = "data-hint-position"
	AttrHintAnimation = "data-hint-animation"
)

// Hint is one marker descriptor. ID is its index in the built list.
type Hint struct {
	ID           int
	Element      *dom.Element
	Text         string
	Anchor       string
	Animation    bool
	TooltipClass string
	Position     string
}

// BuildHints creates the hint list from explicit configs, or by scanning
// elements carrying data-hint. Hints whose selector matches nothing are
// dropped.
func BuildHints(doc *dom.Document, opts *options.Options) ([]*Hint, error) {
	var out []*Hint
	if len(opts.Hints) > 0 {
		for i, cfg := range opts.Hints {
			el := cfg.Target
			if el == nil {
				if cfg.Element == "" {
					logger.Warnf("hints: hint %d has no element, dropping it", i)
					continue
				}
				found, err := doc.QuerySelector(cfg.Element)
				if err != nil {
					return nil, fmt.Errorf("hint %d: %w", i, err)
				}
				if found == nil {
					logger.Warnf("hints: no element matches %q, dropping hint %d", cfg.Element, i)
					continue
				}
				el = found
			}
			h := &Hint{
				ID:           len(out),
				Element:      el,
				Text:         cfg.Hint,
				Anchor:       orDefault(cfg.HintPosition, opts.HintPosition),
				Animation:    opts.HintAnimation,
				TooltipClass: cfg.TooltipClass,
				Position:     orDefault(cfg.Position, opts.TooltipPosition),
			}
			if cfg.HintAnimation != nil {
				h.Animation = *cfg.HintAnimation
			}
			out = append(out, h)
		}
		return out, nil
	}

	elements, err := doc.QuerySelectorAll("*[" + AttrHint + "]")
	if err != nil {
		return nil, err
	}
	for _, el := range elements {
		animation := opts.HintAnimation
		if v, ok := el.Attr(AttrHintAnimation); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				animation = b
			}
		}
		anchor := el.AttrOr(AttrHintPosition, opts.HintPosition)
		if _, ok := options.HintAnchors[anchor]; !ok {
			return nil, fmt.Errorf("%s on <%s>: unknown anchor %q", AttrHintPosition, el.Tag(), anchor)
		}
		out = append(out, &Hint{
			ID:           len(out),
			Element:      el,
			Text:         el.AttrOr(AttrHint, ""),
			Anchor:       anchor,
			Animation:    animation,
			TooltipClass: el.AttrOr(AttrTooltipClass, ""),
			Position:     el.AttrOr(AttrPosition, opts.TooltipPosition),
		})
	}
	return out, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
