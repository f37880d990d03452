package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/layout"
	"github.com/bethropolis/waypoint/internal/locale"
	"github.com/bethropolis/waypoint/internal/steps"
)

// tooltip holds the elements of the tooltip tree.
type tooltip struct {
	root       *dom.Element
	arrow      *dom.Element
	header     *dom.Element
	stepNumber *dom.Element
	title      *dom.Element
	text       *dom.Element
	dontShow   *dom.Element
	checkbox   *dom.Element
	checkLabel *dom.Element
	bullets    *dom.Element
	progress   *dom.Element
	bar        *dom.Element
	buttons    *dom.Element
	skip       *dom.Element
	prev       *dom.Element
	next       *dom.Element
}

func (r *Renderer) buildTooltip() *tooltip {
	doc := r.doc
	el := func(tag string, classes ...string) *dom.Element {
		e := doc.CreateElement(tag)
		e.AddClass(classes...)
		return e
	}
	t := &tooltip{
		root:       el("div", ClassTooltip),
		arrow:      el("div", ClassArrow),
		header:     el("div", ClassHeader),
		stepNumber: el("span", ClassStepNumber),
		title:      el("h1", ClassTitle),
		text:       el("div", ClassText),
		dontShow:   el("div", ClassDontShowAgain),
		checkbox:   el("input"),
		checkLabel: el("label"),
		bullets:    el("div", ClassBullets),
		progress:   el("div", ClassProgress),
		bar:        el("div", ClassProgressBar),
		buttons:    el("div", ClassButtons),
	}
	t.header.AppendChild(t.stepNumber)
	t.header.AppendChild(t.title)

	t.checkbox.SetAttr("type", "checkbox")
	t.checkbox.SetAttr("name", ClassDontShowAgain)
	t.checkbox.SetStyles(dom.Declarations{"display": "inline-block", "width": "3"})
	t.checkbox.SetOnClick(func(*dom.Event) {
		if r.actions.DontShowAgain != nil {
			r.actions.DontShowAgain(t.checkbox.Checked())
		}
	})
	t.checkLabel.SetStyle("display", "inline-block")
	t.checkLabel.SetOnClick(func(ev *dom.Event) {
		if ev.Target == t.checkLabel {
			t.checkbox.Click()
		}
	})
	t.dontShow.AppendChild(t.checkbox)
	t.dontShow.AppendChild(t.checkLabel)

	t.progress.AppendChild(t.bar)

	button := func(class string) *dom.Element {
		b := el("a", r.opts.ButtonClass, class)
		b.SetAttr("role", "button")
		b.SetAttr("tabindex", "0")
		return b
	}
	t.skip = button(ClassSkipButton)
	t.prev = button(ClassPrevButton)
	t.next = button(ClassNextButton)
	t.skip.SetOnClick(r.control(t.skip, func() {
		if t.skip.HasClass(ClassDoneButton) {
			r.actions.Done()
			return
		}
		r.actions.Skip()
	}))
	t.prev.SetOnClick(r.control(t.prev, func() { r.actions.Previous() }))
	t.next.SetOnClick(r.control(t.next, func() {
		if t.next.HasClass(ClassDoneButton) {
			r.actions.Done()
			return
		}
		r.actions.Next()
	}))
	t.buttons.AppendChild(t.skip)
	t.buttons.AppendChild(t.prev)
	t.buttons.AppendChild(t.next)

	for _, c := range []*dom.Element{t.header, t.text, t.dontShow, t.bullets, t.progress, t.buttons, t.arrow} {
		t.root.AppendChild(c)
	}
	return t
}

// control wraps a button handler so disabled buttons ignore clicks.
func (r *Renderer) control(b *dom.Element, fn func()) func(*dom.Event) {
	return func(ev *dom.Event) {
		ev.StopPropagation()
		if b.HasClass(ClassDisabled) || isHidden(b) {
			return
		}
		fn()
	}
}

func (r *Renderer) label(override, key string) string {
	return locale.Label(override, r.opts.Language, key)
}

// contentWidth is the text width inside the tooltip.
func (r *Renderer) contentWidth() int {
	win := dom.WindowSize(r.doc)
	padX, _ := layout.Padding(r.tip.root)
	return max(1, min(r.opts.TooltipWidth, win.W)-2*padX)
}

// setContent fills the tooltip for items[index].
func (r *Renderer) setContent(items []*steps.Step, index int) {
	t := r.tip
	step := items[index]

	classes := []string{ClassTooltip}
	if step.TooltipClass != "" {
		classes = append(classes, step.TooltipClass)
	} else if r.opts.TooltipClass != "" {
		classes = append(classes, r.opts.TooltipClass)
	}
	t.root.SetClassName(strings.Join(classes, " "))

	t.title.SetText(step.Title)
	setShown(t.title, step.Title != "")
	if r.opts.ShowStepNumbers {
		ofLabel := r.label(r.opts.StepNumbersOfLabel, locale.StepNumbersOf)
		t.stepNumber.SetText(fmt.Sprintf("%d %s %d", index+1, ofLabel, len(items)))
		show(t.stepNumber)
	} else {
		t.stepNumber.SetText("")
		hide(t.stepNumber)
	}
	setShown(t.header, step.Title != "" || r.opts.ShowStepNumbers)

	if r.opts.Markdown && r.md != nil {
		t.text.SetStyle("white-space", "pre")
		t.text.SetText(strings.Join(r.md.Render(step.Intro, r.contentWidth()), "\n"))
	} else {
		t.text.SetStyle("white-space", "")
		t.text.SetText(step.Intro)
	}

	setShown(t.dontShow, r.opts.DontShowAgain)
	t.checkLabel.SetText(r.label(r.opts.DontShowAgainLabel, locale.DontShowAgain))

	r.setBullets(items, index)
	r.setProgress(items, index)
	r.setButtons(items, index)
}

func (r *Renderer) setBullets(items []*steps.Step, index int) {
	t := r.tip
	t.bullets.SetText("")
	if !r.opts.ShowBullets {
		hide(t.bullets)
		return
	}
	show(t.bullets)
	for i := range items {
		n := i + 1
		b := r.doc.CreateElement("a")
		b.AddClass(ClassBullet)
		b.SetAttr("role", "button")
		b.SetAttr("tabindex", "0")
		b.SetAttr(AttrStepNumber, strconv.Itoa(n))
		if i == index {
			b.AddClass(ClassActive)
			b.SetText("●")
		} else {
			b.SetText("○")
		}
		b.SetOnClick(func(ev *dom.Event) {
			ev.StopPropagation()
			r.actions.GoTo(n)
		})
		t.bullets.AppendChild(b)
	}
}

func (r *Renderer) setProgress(items []*steps.Step, index int) {
	t := r.tip
	if !r.opts.ShowProgress {
		hide(t.progress)
		return
	}
	show(t.progress)
	pct := (index + 1) * 100 / len(items)
	t.bar.SetClassName(ClassProgressBar)
	if r.opts.ProgressClass != "" {
		t.bar.AddClass(r.opts.ProgressClass)
	}
	t.bar.SetStyle("width", fmt.Sprintf("%d%%", pct))
	t.progress.SetAttr("aria-valuenow", strconv.Itoa(pct))
	t.progress.SetAttr("aria-valuemin", "0")
	t.progress.SetAttr("aria-valuemax", "100")
}

// setButtons labels and enables the navigation buttons for index.
func (r *Renderer) setButtons(items []*steps.Step, index int) {
	t := r.tip
	o := r.opts
	setShown(t.buttons, o.ShowButtons)

	for _, b := range []*dom.Element{t.skip, t.prev, t.next} {
		b.RemoveClass(ClassDisabled, ClassDoneButton, ClassHidden)
		b.SetAttr("tabindex", "0")
	}
	disable := func(b *dom.Element) {
		b.AddClass(ClassDisabled)
		b.SetAttr("tabindex", "-1")
	}

	t.skip.SetText(r.label(o.SkipLabel, locale.Skip))
	t.prev.SetText(r.label(o.PrevLabel, locale.Prev))
	t.next.SetText(r.label(o.NextLabel, locale.Next))

	if index == 0 {
		if o.HidePrev {
			hide(t.prev)
		} else {
			disable(t.prev)
		}
	}
	if index == len(items)-1 {
		done := r.label(o.DoneLabel, locale.Done)
		t.skip.SetText(done)
		t.skip.AddClass(ClassDoneButton)
		switch {
		case o.HideNext:
			hide(t.next)
		case o.NextToDone:
			t.next.SetText(done)
			t.next.AddClass(ClassDoneButton)
			hide(t.skip)
		default:
			disable(t.next)
		}
	}
}

// focusDefault focuses the next button, or skip when next is unavailable.
func (r *Renderer) focusDefault() {
	t := r.tip
	if !r.opts.ShowButtons {
		return
	}
	for _, b := range []*dom.Element{t.next, t.skip} {
		if !isHidden(b) && !b.HasClass(ClassDisabled) {
			b.Focus()
			return
		}
	}
}
