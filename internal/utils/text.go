package utils

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// MaxWidth returns the widest line of lines.
func MaxWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		if lw := Width(l); lw > w {
			w = lw
		}
	}
	return w
}

// Truncate cuts s to at most width cells, on a grapheme boundary.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if used+w > width {
			break
		}
		b.WriteString(gr.Str())
		used += w
	}
	return b.String()
}

// Wrap breaks text into lines of at most width cells. Existing newlines are
// kept, words longer than width are split on grapheme boundaries.
func Wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		lineW := 0
		for _, word := range words {
			ww := Width(word)
			for ww > width {
				if lineW > 0 {
					out = append(out, line)
					line, lineW = "", 0
				}
				head := Truncate(word, width)
				if head == "" {
					// A single grapheme wider than width; emit it alone.
					gr := uniseg.NewGraphemes(word)
					gr.Next()
					head = gr.Str()
				}
				out = append(out, head)
				word = word[len(head):]
				ww = Width(word)
			}
			if ww == 0 {
				continue
			}
			switch {
			case lineW == 0:
				line, lineW = word, ww
			case lineW+1+ww <= width:
				line += " " + word
				lineW += 1 + ww
			default:
				out = append(out, line)
				line, lineW = word, ww
			}
		}
		if lineW > 0 {
			out = append(out, line)
		}
	}
	return out
}
