package dom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Declarations is a set of CSS-like property/value pairs. Keys are lowercase.
type Declarations map[string]string

// defaultStyle holds the values reported when neither inline style nor a
// class rule sets a property.
var defaultStyle = Declarations{
	"position":    "static",
	"z-index":     "auto",
	"opacity":     "1",
	"transform":   "none",
	"overflow":    "visible",
	"overflow-x":  "visible",
	"overflow-y":  "visible",
	"display":     "block",
	"visibility":  "visible",
	"white-space": "normal",
}

// ParseDeclarations parses "a: b; c: d" into declarations.
func ParseDeclarations(src string) Declarations {
	decls := Declarations{}
	for _, part := range strings.Split(src, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		decls[name] = value
	}
	return decls
}

// String serializes declarations in a stable (sorted) order.
func (d Declarations) String() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s: %s;", k, d[k])
	}
	return b.String()
}

type classRule struct {
	class string
	decls Declarations
}

// AddRule registers declarations for elements carrying class. Later rules
// win over earlier ones for the same property.
func (d *Document) AddRule(class string, decls Declarations) {
	d.rules = append(d.rules, classRule{class: class, decls: decls})
}

// HasRule reports whether any rule targets class.
func (d *Document) HasRule(class string) bool {
	for _, r := range d.rules {
		if r.class == class {
			return true
		}
	}
	return false
}

// AddStyleSheet registers rules from a minimal stylesheet made of
// ".class[, .class] { decls }" blocks. Other selectors are rejected.
func (d *Document) AddStyleSheet(src string) error {
	rest := src
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			if strings.TrimSpace(rest) != "" {
				return fmt.Errorf("stylesheet: trailing text %q", strings.TrimSpace(rest))
			}
			return nil
		}
		end := strings.Index(rest[open:], "}")
		if end < 0 {
			return fmt.Errorf("stylesheet: unterminated block after %q", strings.TrimSpace(rest[:open]))
		}
		selectors := rest[:open]
		decls := ParseDeclarations(rest[open+1 : open+end])
		for _, sel := range strings.Split(selectors, ",") {
			sel = strings.TrimSpace(sel)
			if !strings.HasPrefix(sel, ".") || strings.ContainsAny(sel[1:], " .#>[:") {
				return fmt.Errorf("stylesheet: unsupported selector %q", sel)
			}
			d.AddRule(sel[1:], decls)
		}
		rest = rest[open+end+1:]
	}
}

// ComputedStyle resolves a property from important class rules, inline
// style, the remaining class rules and finally defaults. Unknown properties
// resolve to "".
func (e *Element) ComputedStyle(prop string) string {
	prop = strings.ToLower(prop)
	if v, ok := e.ruleValue(prop, true); ok {
		return v
	}
	inline := e.inlineStyle()
	if v, ok := inline[prop]; ok {
		return v
	}
	if strings.HasPrefix(prop, "overflow-") {
		if v, ok := inline["overflow"]; ok {
			return v
		}
	}
	if v, ok := e.ruleValue(prop, false); ok {
		return v
	}
	return defaultStyle[prop]
}

const important = "!important"

// ruleValue looks prop up in the class rules matching e, latest first.
func (e *Element) ruleValue(prop string, wantImportant bool) (string, bool) {
	if e.doc == nil {
		return "", false
	}
	classes := e.Classes()
	for i := len(e.doc.rules) - 1; i >= 0; i-- {
		r := e.doc.rules[i]
		if !containsString(classes, r.class) {
			continue
		}
		v, ok := r.decls[prop]
		if !ok && strings.HasPrefix(prop, "overflow-") {
			v, ok = r.decls["overflow"]
		}
		if !ok {
			continue
		}
		isImportant := strings.HasSuffix(v, important)
		if isImportant != wantImportant {
			continue
		}
		return strings.TrimSpace(strings.TrimSuffix(v, important)), true
	}
	return "", false
}

// Style returns an inline style property.
func (e *Element) Style(prop string) string {
	return e.inlineStyle()[strings.ToLower(prop)]
}

// SetStyle sets an inline style property; an empty value removes it.
func (e *Element) SetStyle(prop, value string) {
	decls := e.inlineStyle()
	prop = strings.ToLower(prop)
	if value == "" {
		delete(decls, prop)
	} else {
		decls[prop] = value
	}
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	e.SetAttr("style", decls.String())
}

// SetStyles sets several inline properties at once.
func (e *Element) SetStyles(decls Declarations) {
	for k, v := range decls {
		e.SetStyle(k, v)
	}
}

func (e *Element) inlineStyle() Declarations {
	v, _ := e.Attr("style")
	return ParseDeclarations(v)
}

// styleInt reads an integer inline property; "12", "12px" and "12ch" parse.
func (e *Element) styleInt(prop string) (int, bool) {
	v := strings.TrimSpace(e.Style(prop))
	v = strings.TrimSuffix(strings.TrimSuffix(v, "px"), "ch")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
