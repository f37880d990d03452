// Package placement decides where a tooltip goes relative to its target and
// computes the offsets that keep it inside the window.
package placement

import (
	"fmt"
	"strings"
)

// Position is a placement token: a base side with an optional alignment
// suffix, e.g. "bottom-middle-aligned".
type Position string

const (
	Top                 Position = "top"
	Bottom              Position = "bottom"
	Left                Position = "left"
	Right               Position = "right"
	Floating            Position = "floating"
	Auto                Position = "auto"
	TopLeftAligned      Position = "top-left-aligned"
	TopMiddleAligned    Position = "top-middle-aligned"
	TopRightAligned     Position = "top-right-aligned"
	BottomLeftAligned   Position = "bottom-left-aligned"
	BottomMiddleAligned Position = "bottom-middle-aligned"
	BottomRightAligned  Position = "bottom-right-aligned"
)

// Alignment suffixes, in the fixed fallback order.
const (
	AlignLeft   = "-left-aligned"
	AlignMiddle = "-middle-aligned"
	AlignRight  = "-right-aligned"
)

var alignments = []string{AlignLeft, AlignMiddle, AlignRight}

var known = map[Position]bool{
	Top: true, Bottom: true, Left: true, Right: true, Floating: true, Auto: true,
	TopLeftAligned: true, TopMiddleAligned: true, TopRightAligned: true,
	BottomLeftAligned: true, BottomMiddleAligned: true, BottomRightAligned: true,
}

// DefaultPrecedence is the order auto placement tries base sides in.
var DefaultPrecedence = []Position{Bottom, Top, Right, Left}

// ParsePosition validates a token. The empty string parses as Bottom.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return Bottom, nil
	}
	if !known[p] {
		return "", fmt.Errorf("unknown position %q", s)
	}
	return p, nil
}

// Valid reports whether p is a known token.
func (p Position) Valid() bool { return known[p] }

// Base strips the alignment suffix.
func (p Position) Base() Position {
	base, _, _ := strings.Cut(string(p), "-")
	return Position(base)
}

// Alignment returns the alignment suffix (with its leading dash), or "".
func (p Position) Alignment() string {
	if i := strings.Index(string(p), "-"); i >= 0 {
		return string(p)[i:]
	}
	return ""
}

// Arrow names the arrow variant drawn on the tooltip edge facing the target.
// The empty Arrow means no arrow.
type Arrow string

const (
	ArrowNone         Arrow = ""
	ArrowTop          Arrow = "top"
	ArrowTopMiddle    Arrow = "top-middle"
	ArrowTopRight     Arrow = "top-right"
	ArrowBottom       Arrow = "bottom"
	ArrowBottomMiddle Arrow = "bottom-middle"
	ArrowBottomRight  Arrow = "bottom-right"
	ArrowLeft         Arrow = "left"
	ArrowLeftBottom   Arrow = "left-bottom"
	ArrowRight        Arrow = "right"
	ArrowRightBottom  Arrow = "right-bottom"
)
