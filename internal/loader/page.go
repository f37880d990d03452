// Package loader reads the files the host works with: HTML pages and YAML
// tour definitions.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/bethropolis/waypoint/internal/dom"
	"github.com/bethropolis/waypoint/internal/layout"
	"github.com/bethropolis/waypoint/internal/logger"
)

// Page is a parsed document plus what the host shows about it.
type Page struct {
	Path  string
	Title string
	Doc   *dom.Document
}

// LoadPage parses the HTML file at path. Class-only <style> blocks become
// document rules; blocks using other selectors are skipped with a warning.
func LoadPage(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", path, err)
	}
	p := &Page{Path: path, Doc: doc}
	prepare(p)
	return p, nil
}

// ParsePage is LoadPage for in-memory markup.
func ParsePage(name, markup string) (*Page, error) {
	doc, err := dom.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", name, err)
	}
	p := &Page{Path: name, Doc: doc}
	prepare(p)
	return p, nil
}

func prepare(p *Page) {
	for _, e := range p.Doc.Elements() {
		switch e.Tag() {
		case "title":
			if p.Title == "" {
				p.Title = strings.TrimSpace(e.Text())
			}
		case "style":
			if err := p.Doc.AddStyleSheet(e.Text()); err != nil {
				logger.Warnf("page %s: skipping stylesheet: %v", p.Path, err)
			}
			e.SetStyle("display", "none")
		case "script", "template":
			e.SetStyle("display", "none")
		}
	}
	if p.Title == "" {
		p.Title = p.Path
	}
}

// Layout flows the body at the document's viewport width and returns the
// content height.
func (p *Page) Layout() int {
	h := layout.Flow(p.Doc.Body(), 0, 0, p.Doc.Viewport().W)
	logger.DebugTagf("loader", "laid out %s: %d rows", p.Path, h)
	return h
}
