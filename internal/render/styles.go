// Package render draws a tour's layers into the document: the overlay, the
// helper and reference layers, the tooltip and its controls.
package render

import (
	"github.com/bethropolis/waypoint/internal/dom"
)

// Class names of the rendered layers and controls.
const (
	ClassOverlay            = "waypoint-overlay"
	ClassHelperLayer        = "waypoint-helperLayer"
	ClassReferenceLayer     = "waypoint-tooltipReferenceLayer"
	ClassFixedTooltip       = "waypoint-fixedTooltip"
	ClassTooltip            = "waypoint-tooltip"
	ClassArrow              = "waypoint-arrow"
	ClassHeader             = "waypoint-tooltip-header"
	ClassTitle              = "waypoint-tooltip-title"
	ClassStepNumber         = "waypoint-helperNumberLayer"
	ClassText               = "waypoint-tooltiptext"
	ClassDontShowAgain      = "waypoint-dontShowAgain"
	ClassBullets            = "waypoint-bullets"
	ClassBullet             = "waypoint-bullet"
	ClassActive             = "active"
	ClassProgress           = "waypoint-progress"
	ClassProgressBar        = "waypoint-progressbar"
	ClassButtons            = "waypoint-tooltipbuttons"
	ClassPrevButton         = "waypoint-prevbutton"
	ClassNextButton         = "waypoint-nextbutton"
	ClassSkipButton         = "waypoint-skipbutton"
	ClassDoneButton         = "waypoint-donebutton"
	ClassDisabled           = "waypoint-disabled"
	ClassHidden             = "waypoint-hidden"
	ClassDisableInteraction = "waypoint-disableInteraction"
	ClassShowElement        = "waypoint-showElement"
	ClassRelativePosition   = "waypoint-relativePosition"
	ClassFixParent          = "waypoint-fixParent"

	ClassHints         = "waypoint-hints"
	ClassHint          = "waypoint-hint"
	ClassHintNoAnim    = "waypoint-hint-no-anim"
	ClassFixedHint     = "waypoint-fixedhint"
	ClassHideHint      = "waypoint-hidehint"
	ClassHintReference = "waypoint-hintReference"
)

// AttrStepNumber marks bullets with the step they jump to.
const AttrStepNumber = "data-step-number"

// StyleSheet is registered on every document a tour or hint renders into.
// padding-x/padding-y and border are read by the layout and the painter.
const StyleSheet = `
.waypoint-overlay { position: absolute; z-index: 999999 }
.waypoint-helperLayer { position: absolute; z-index: 9999998; border: round }
.waypoint-tooltipReferenceLayer { position: absolute; z-index: 100000000; visibility: hidden }
.waypoint-fixedTooltip { position: fixed }
.waypoint-tooltip { position: absolute; padding-x: 2; padding-y: 1; border: round }
.waypoint-arrow { position: absolute }
.waypoint-tooltip-header { margin-bottom: 1 }
.waypoint-helperNumberLayer, .waypoint-tooltip-title { display: inline-block }
.waypoint-tooltiptext { margin-bottom: 1 }
.waypoint-dontShowAgain { margin-bottom: 1 }
.waypoint-bullets { margin-bottom: 1 }
.waypoint-bullet { display: inline-block }
.waypoint-progress { height: 1; margin-bottom: 1 }
.waypoint-progressbar { display: inline-block; height: 1 }
.waypoint-button { display: inline-block; padding-x: 1 }
.waypoint-hidden { display: none !important }
.waypoint-disableInteraction { position: absolute; z-index: 99999999 }
.waypoint-showElement { z-index: 9999999 !important }
.waypoint-relativePosition { position: relative }
.waypoint-fixParent { z-index: auto !important; opacity: 1 !important; transform: none !important }
.waypoint-floating-element { position: fixed }
.waypoint-hint { position: absolute; z-index: 10000000; width: 3; height: 1 }
.waypoint-fixedhint { position: fixed }
.waypoint-hidehint { display: none !important }
`

// Install registers StyleSheet on doc once.
func Install(doc *dom.Document) {
	if doc.HasRule(ClassOverlay) {
		return
	}
	if err := doc.AddStyleSheet(StyleSheet); err != nil {
		// The sheet is a constant; failing to parse it is a programming error.
		panic(err)
	}
}

func hide(e *dom.Element) { e.AddClass(ClassHidden) }
func show(e *dom.Element) { e.RemoveClass(ClassHidden) }
func isHidden(e *dom.Element) bool { return e.HasClass(ClassHidden) }

func setShown(e *dom.Element, v bool) {
	if v {
		show(e)
	} else {
		hide(e)
	}
}
