// Package hint places persistent markers next to elements. Clicking a
// marker opens a small dialog with the hint text; at most one dialog is
// open at a time.
package hint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/event"
	"github.com/bethropolis/waypoint/internal/layout"
	"github.com/bethropolis/waypoint/internal/locale"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/options"
	"github.com/bethropolis/waypoint/internal/placement"
	"github.com/bethropolis/waypoint/internal/render"
	"github.com/bethropolis/waypoint/internal/steps"
)

// Marker size in cells.
const (
	MarkerWidth  = 3
	MarkerHeight = 1
)

// MarkerGlyph is the text drawn inside a marker.
const MarkerGlyph = "(●)"

// AttrHintID links markers and the dialog to their hint.
const AttrHintID = "data-step"

// ErrUnknownHint is returned for ids that were never added or were removed.
var ErrUnknownHint = errors.New("hint: unknown id")

type marker struct {
	hint *steps.Hint
	el   *dom.Element
}

type dialog struct {
	id        int
	reference *dom.Element
	tip       *dom.Element
	arrow     *dom.Element
}

// Manager owns the hint markers of one document.
type Manager struct {
	doc    *dom.Document
	opts   options.Options
	md     render.TextRenderer
	events *event.Manager

	container *dom.Element
	markers   map[int]*marker
	order     []int
	open      *dialog

	resizeListener dom.ListenerID
	clickListener  dom.ListenerID

	onHintsAdded func()
	onHintClick  func(id int)
	onHintClose  func(id int)
}

// Option configures a Manager.
type Option func(*Manager)

// WithOptions replaces the default options.
func WithOptions(o options.Options) Option { return func(m *Manager) { m.opts = o } }

// WithMarkdown renders hint texts with md.
func WithMarkdown(md render.TextRenderer) Option { return func(m *Manager) { m.md = md } }

// WithEventManager publishes hint events on em.
func WithEventManager(em *event.Manager) Option { return func(m *Manager) { m.events = em } }

// New creates a manager with no markers.
func New(doc *dom.Document, opts ...Option) *Manager {
	m := &Manager{doc: doc, opts: options.Defaults(), markers: make(map[int]*marker)}
	for _, opt := range opts {
		opt(m)
	}
	render.Install(doc)
	return m
}

// SetOptions merges options; they apply to hints added afterwards.
func (m *Manager) SetOptions(partial map[string]any) error { return m.opts.Apply(partial) }

// OnHintsAdded registers the callback run once markers were added.
func (m *Manager) OnHintsAdded(fn func()) {
	if fn == nil {
		panic("hint: OnHintsAdded needs a non-nil callback")
	}
	m.onHintsAdded = fn
}

// OnHintClick registers the callback run when a marker is clicked.
func (m *Manager) OnHintClick(fn func(id int)) {
	if fn == nil {
		panic("hint: OnHintClick needs a non-nil callback")
	}
	m.onHintClick = fn
}

// OnHintClose registers the callback run when a hint is hidden.
func (m *Manager) OnHintClose(fn func(id int)) {
	if fn == nil {
		panic("hint: OnHintClose needs a non-nil callback")
	}
	m.onHintClose = fn
}

// Added reports whether markers exist.
func (m *Manager) Added() bool { return m.container != nil }

// IDs returns the ids of the current markers in creation order.
func (m *Manager) IDs() []int { return append([]int(nil), m.order...) }

// Marker returns the marker element of id.
func (m *Manager) Marker(id int) (*dom.Element, bool) {
	mk, ok := m.markers[id]
	if !ok {
		return nil, false
	}
	return mk.el, true
}

// OpenDialog returns the id of the open dialog.
func (m *Manager) OpenDialog() (int, bool) {
	if m.open == nil {
		return 0, false
	}
	return m.open.id, true
}

// AddHints builds the hints and renders their markers. Calling it again
// while markers exist is a no-op.
func (m *Manager) AddHints() error {
	if m.Added() {
		return nil
	}
	hints, err := steps.BuildHints(m.doc, &m.opts)
	if err != nil {
		return fmt.Errorf("add hints: %w", err)
	}
	if len(hints) == 0 {
		logger.Infof("hints: nothing to add")
		return nil
	}

	m.container = m.doc.CreateElement("div")
	m.container.AddClass(render.ClassHints)
	for _, h := range hints {
		m.addMarker(h)
	}
	m.doc.Body().AppendChild(m.container)

	m.resizeListener = m.doc.AddEventListener(dom.Resize, func(*dom.Event) { m.Refresh() })
	m.clickListener = m.doc.AddEventListener(dom.Click, m.onDocumentClick)

	logger.DebugTagf("hint", "added %d hint(s)", len(hints))
	if m.onHintsAdded != nil {
		m.onHintsAdded()
	}
	m.publish(event.TypeHintsAdded, event.HintsAddedData{Count: len(hints)})
	return nil
}

func (m *Manager) addMarker(h *steps.Hint) {
	el := m.doc.CreateElement("a")
	el.AddClass(render.ClassHint)
	if !h.Animation {
		el.AddClass(render.ClassHintNoAnim)
	}
	if dom.IsFixed(h.Element) {
		el.AddClass(render.ClassFixedHint)
	}
	el.SetAttr(AttrHintID, strconv.Itoa(h.ID))
	el.SetAttr("tabindex", "0")
	el.SetText(MarkerGlyph)
	id := h.ID
	el.SetOnClick(func(ev *dom.Event) {
		ev.StopPropagation()
		if m.onHintClick != nil {
			m.onHintClick(id)
		}
		m.publish(event.TypeHintClicked, event.HintData{ID: id, Text: h.Text})
		m.ShowHintDialog(id)
	})
	Align(el, h.Element, h.Anchor)
	m.container.AppendChild(el)
	m.markers[id] = &marker{hint: h, el: el}
	m.order = append(m.order, id)
}

// Align moves a marker to anchor on target's document box.
func Align(el, target *dom.Element, anchor string) {
	off := dom.Offset(target)
	x, y := off.X, off.Y
	vert, horiz, _ := strings.Cut(anchor, "-")
	switch horiz {
	case "middle":
		x += (off.W - MarkerWidth) / 2
	case "right":
		x += off.W - MarkerWidth
	}
	switch vert {
	case "middle":
		y += (off.H - MarkerHeight) / 2
	case "bottom":
		y += off.H - MarkerHeight
	}
	el.SetBox(dom.Rect{X: x, Y: y, W: MarkerWidth, H: MarkerHeight})
}

// ShowHints reveals every marker, adding them first if needed.
func (m *Manager) ShowHints() error {
	if !m.Added() {
		return m.AddHints()
	}
	for _, id := range m.order {
		m.ShowHint(id)
	}
	return nil
}

// HideHints hides every marker.
func (m *Manager) HideHints() {
	for _, id := range m.order {
		m.HideHint(id)
	}
}

// ShowHint reveals one marker.
func (m *Manager) ShowHint(id int) {
	if mk, ok := m.markers[id]; ok {
		mk.el.RemoveClass(render.ClassHideHint)
	}
}

// HideHint hides one marker and its dialog.
func (m *Manager) HideHint(id int) {
	mk, ok := m.markers[id]
	if !ok {
		return
	}
	if m.open != nil && m.open.id == id {
		m.HideHintDialog()
	}
	mk.el.AddClass(render.ClassHideHint)
	if m.onHintClose != nil {
		m.onHintClose(id)
	}
	m.publish(event.TypeHintClosed, event.HintData{ID: id, Text: mk.hint.Text})
}

// RemoveHint destroys one marker.
func (m *Manager) RemoveHint(id int) {
	mk, ok := m.markers[id]
	if !ok {
		return
	}
	if m.open != nil && m.open.id == id {
		m.HideHintDialog()
	}
	mk.el.Remove()
	delete(m.markers, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// RemoveHints destroys every marker and the dialog.
func (m *Manager) RemoveHints() {
	m.HideHintDialog()
	for _, id := range m.IDs() {
		m.RemoveHint(id)
	}
	if m.container != nil {
		m.container.Remove()
		m.container = nil
	}
	m.doc.RemoveEventListener(m.resizeListener)
	m.doc.RemoveEventListener(m.clickListener)
	m.resizeListener, m.clickListener = 0, 0
}

// ShowHintDialog toggles the dialog of id. Any other open dialog is closed
// first.
func (m *Manager) ShowHintDialog(id int) error {
	mk, ok := m.markers[id]
	if !ok {
		return fmt.Errorf("%w %d", ErrUnknownHint, id)
	}
	if m.open != nil {
		same := m.open.id == id
		m.HideHintDialog()
		if same {
			return nil
		}
	}

	d := &dialog{id: id}
	d.reference = m.doc.CreateElement("div")
	d.reference.AddClass(render.ClassReferenceLayer, render.ClassHintReference)
	d.reference.SetAttr(AttrHintID, strconv.Itoa(id))
	render.PositionLayer(d.reference, mk.el, 0, 0)

	d.tip = m.doc.CreateElement("div")
	d.tip.AddClass(render.ClassTooltip)
	if mk.hint.TooltipClass != "" {
		d.tip.AddClass(strings.Fields(mk.hint.TooltipClass)...)
	}
	d.arrow = m.doc.CreateElement("div")
	d.arrow.AddClass(render.ClassArrow)
	d.tip.AppendChild(d.arrow)
	d.tip.AppendChild(m.dialogText(d.tip, mk.hint))
	if m.opts.HintShowButton {
		d.tip.AppendChild(m.dialogButton(id))
	}
	d.reference.AppendChild(d.tip)
	m.doc.Body().AppendChild(d.reference)
	m.open = d
	m.place()
	return nil
}

func (m *Manager) dialogText(tip *dom.Element, h *steps.Hint) *dom.Element {
	text := m.doc.CreateElement("div")
	text.AddClass(render.ClassText)
	if m.opts.Markdown && m.md != nil {
		padX, _ := layout.Padding(tip)
		width := max(1, min(m.opts.TooltipWidth, dom.WindowSize(m.doc).W)-2*padX)
		text.SetStyle("white-space", "pre")
		text.SetText(strings.Join(m.md.Render(h.Text, width), "\n"))
	} else {
		text.SetText(h.Text)
	}
	return text
}

func (m *Manager) dialogButton(id int) *dom.Element {
	buttons := m.doc.CreateElement("div")
	buttons.AddClass(render.ClassButtons)
	btn := m.doc.CreateElement("button")
	btn.AddClass(strings.Fields(m.opts.ButtonClass)...)
	btn.SetAttr("tabindex", "0")
	btn.SetText(locale.Label(m.opts.HintButtonLabel, m.opts.Language, locale.HintButton))
	btn.SetOnClick(func(ev *dom.Event) {
		ev.StopPropagation()
		m.HideHint(id)
	})
	buttons.AppendChild(btn)
	return buttons
}

// place solves the open dialog's position around its marker.
func (m *Manager) place() {
	d := m.open
	h := m.markers[d.id].hint
	desired, err := placement.ParsePosition(h.Position)
	if err != nil {
		logger.Warnf("hints: hint %d: %v", d.id, err)
		desired = placement.Bottom
	}
	render.PlaceTooltip(d.tip, d.arrow, d.reference, render.Placement{
		Desired:      desired,
		Precedence:   m.opts.Precedence(),
		AutoPosition: m.opts.AutoPosition,
		Width:        m.opts.TooltipWidth,
		HintMode:     true,
	})
}

// HideHintDialog closes the open dialog, if any.
func (m *Manager) HideHintDialog() {
	if m.open == nil {
		return
	}
	m.open.reference.Remove()
	m.open = nil
}

// Refresh realigns every marker with its target and re-places the open
// dialog without reopening it.
func (m *Manager) Refresh() {
	for _, id := range m.order {
		mk := m.markers[id]
		Align(mk.el, mk.hint.Element, mk.hint.Anchor)
	}
	if m.open != nil {
		render.PositionLayer(m.open.reference, m.markers[m.open.id].el, 0, 0)
		m.place()
	}
}

// onDocumentClick closes the dialog on clicks outside of it.
func (m *Manager) onDocumentClick(ev *dom.Event) {
	if m.open == nil || ev.Target == nil {
		return
	}
	if ev.Target == m.open.reference || ev.Target.IsDescendantOf(m.open.reference) {
		return
	}
	m.HideHintDialog()
}

func (m *Manager) publish(typ event.Type, data any) {
	if m.events != nil {
		m.events.Dispatch(typ, data)
	}
}
