// Package steps builds the ordered step list of a tour, either from explicit
// configuration or by scanning annotated elements.
package steps

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/options"
	"github.com/bethropolis/waypoint/internal/placement"
)

// Annotation attributes read by the scan.
const (
	AttrIntro              = "data-intro"
	AttrTitle              = "data-title"
	AttrStep               = "data-step"
	AttrPosition           = "data-position"
	AttrTooltipClass       = "data-tooltip-class"
	AttrHighlightClass     = "data-highlight-class"
	AttrScrollTo           = "data-scroll-to"
	AttrDisableInteraction = "data-disable-interaction"
	AttrGroup              = "data-intro-group"
)

// FloatingClass marks the shared placeholder used by steps without a target.
const FloatingClass = "waypoint-floating-element"

// Step is one stop of a tour. Steps are immutable during a run.
type Step struct {
	Ordinal            int
	Element            *dom.Element
	Title              string
	Intro              string
	Position           placement.Position
	TooltipClass       string
	HighlightClass     string
	ScrollTo           options.ScrollTo
	DisableInteraction bool
}

// IsFloating reports whether the step has no real target.
func (s *Step) IsFloating() bool {
	return s.Element != nil && s.Element.HasClass(FloatingClass)
}

// Build creates the step list. Explicit steps win over the annotation scan.
// A malformed selector is an error; a selector matching nothing drops the
// step. The result is sorted by ordinal and may be empty.
func Build(doc *dom.Document, opts *options.Options) ([]*Step, error) {
	if len(opts.Steps) > 0 {
		return fromConfig(doc, opts)
	}
	return fromAnnotations(doc, opts)
}

func fromConfig(doc *dom.Document, opts *options.Options) ([]*Step, error) {
	items := make([]*Step, 0, len(opts.Steps))
	for i, cfg := range opts.Steps {
		el := cfg.Target
		if el == nil && cfg.Element != "" {
			found, err := doc.QuerySelector(cfg.Element)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			if found == nil {
				logger.Warnf("steps: no element matches %q, dropping step %d", cfg.Element, i+1)
				continue
			}
			el = found
		}

		position := cfg.Position
		if position == "" {
			position = opts.TooltipPosition
		}
		if el == nil {
			el = FloatingElement(doc)
			position = string(placement.Floating)
		}
		pos, err := placement.ParsePosition(position)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		scrollTo := cfg.ScrollTo
		if scrollTo == "" {
			scrollTo = opts.ScrollTo
		}
		disable := opts.DisableInteraction
		if cfg.DisableInteraction != nil {
			disable = *cfg.DisableInteraction
		}

		items = append(items, &Step{
			Ordinal:            len(items) + 1,
			Element:            el,
			Title:              cfg.Title,
			Intro:              cfg.Intro,
			Position:           pos,
			TooltipClass:       cfg.TooltipClass,
			HighlightClass:     cfg.HighlightClass,
			ScrollTo:           scrollTo,
			DisableInteraction: disable,
		})
	}
	return items, nil
}

func fromAnnotations(doc *dom.Document, opts *options.Options) ([]*Step, error) {
	elements, err := doc.QuerySelectorAll("*[" + AttrIntro + "]")
	if err != nil {
		return nil, err
	}

	var slots []*Step
	var unordered []*dom.Element
	put := func(idx int, s *Step) {
		for len(slots) <= idx {
			slots = append(slots, nil)
		}
		if prev := slots[idx]; prev != nil {
			logger.Warnf("steps: %s=%d used twice, the later element wins", AttrStep, idx+1)
		}
		slots[idx] = s
	}

	for _, el := range elements {
		if opts.Group != "" && el.AttrOr(AttrGroup, "") != opts.Group {
			continue
		}
		if el.ComputedStyle("display") == "none" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(el.AttrOr(AttrStep, "")))
		if err != nil || n <= 0 {
			unordered = append(unordered, el)
			continue
		}
		s, err := fromElement(el, opts)
		if err != nil {
			return nil, err
		}
		s.Ordinal = n
		put(n-1, s)
	}

	next := 0
	for _, el := range unordered {
		for next < len(slots) && slots[next] != nil {
			next++
		}
		s, err := fromElement(el, opts)
		if err != nil {
			return nil, err
		}
		s.Ordinal = next + 1
		put(next, s)
	}

	items := make([]*Step, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			items = append(items, s)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Ordinal < items[j].Ordinal })
	return items, nil
}

func fromElement(el *dom.Element, opts *options.Options) (*Step, error) {
	pos, err := placement.ParsePosition(el.AttrOr(AttrPosition, opts.TooltipPosition))
	if err != nil {
		return nil, fmt.Errorf("%s on <%s>: %w", AttrPosition, el.Tag(), err)
	}
	scrollTo := options.ScrollTo(el.AttrOr(AttrScrollTo, string(opts.ScrollTo)))
	if !scrollTo.Valid() {
		return nil, fmt.Errorf("%s on <%s>: unknown value %q", AttrScrollTo, el.Tag(), scrollTo)
	}
	disable := opts.DisableInteraction
	if v, ok := el.Attr(AttrDisableInteraction); ok {
		disable = parseFlag(v)
	}
	return &Step{
		Element:            el,
		Title:              el.AttrOr(AttrTitle, ""),
		Intro:              el.AttrOr(AttrIntro, ""),
		Position:           pos,
		TooltipClass:       el.AttrOr(AttrTooltipClass, ""),
		HighlightClass:     el.AttrOr(AttrHighlightClass, ""),
		ScrollTo:           scrollTo,
		DisableInteraction: disable,
	}, nil
}

// parseFlag reads a boolean attribute. Unparseable non-empty values count as true.
func parseFlag(v string) bool {
	if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
		return b
	}
	return strings.TrimSpace(v) != ""
}

// FloatingElement returns the document's floating placeholder, creating it
// on first use. It sits, sizeless, at the viewport centre.
func FloatingElement(doc *dom.Document) *dom.Element {
	if existing := doc.ElementsByClass(FloatingClass); len(existing) > 0 {
		return existing[0]
	}
	el := doc.CreateElement("div")
	el.AddClass(FloatingClass)
	el.SetStyle("position", "fixed")
	doc.Body().AppendChild(el)
	CenterFloating(doc)
	return el
}

// CenterFloating moves the floating placeholder back to the viewport centre.
func CenterFloating(doc *dom.Document) {
	win := dom.WindowSize(doc)
	for _, el := range doc.ElementsByClass(FloatingClass) {
		el.SetBox(dom.Rect{X: win.W / 2, Y: win.H / 2})
	}
}

// RemoveFloating deletes the floating placeholder, if any.
func RemoveFloating(doc *dom.Document) {
	for _, el := range doc.ElementsByClass(FloatingClass) {
		el.Remove()
	}
}
