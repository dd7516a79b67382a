package launcher

import (
	"fmt"
	"strings"

	"github.com/drake/scriptkit/protocol"
)

// choiceList renders a scrollable, already-filtered/already-selected list
// of choices. Filtering and selection live in promptengine.Session; this
// widget only windows and highlights, generalizing the scroll-window
// bookkeeping from the teacher's widget.Picker (ui/tui/widget/picker.go)
// without reimplementing its internal fuzzy filter.
type choiceList struct {
	maxVisible int
	scrollOff  int
	width      int
	styles     styles
}

func newChoiceList(styles styles) *choiceList {
	return &choiceList{maxVisible: 10, styles: styles}
}

func (l *choiceList) adjustScroll(selected, total int) {
	if selected < l.scrollOff {
		l.scrollOff = selected
	}
	if selected >= l.scrollOff+l.maxVisible {
		l.scrollOff = selected - l.maxVisible + 1
	}
	if l.scrollOff < 0 {
		l.scrollOff = 0
	}
	maxOff := total - l.maxVisible
	if maxOff < 0 {
		maxOff = 0
	}
	if l.scrollOff > maxOff {
		l.scrollOff = maxOff
	}
}

func (l *choiceList) View(choices []protocol.Choice, selected int) string {
	if len(choices) == 0 {
		return l.styles.Muted.Render("No matches")
	}
	l.adjustScroll(selected, len(choices))

	end := l.scrollOff + l.maxVisible
	if end > len(choices) {
		end = len(choices)
	}

	var rows []string
	for i := l.scrollOff; i < end; i++ {
		c := choices[i]
		line := c.Name
		if c.Description != "" {
			line = fmt.Sprintf("%s  %s", c.Name, l.styles.Muted.Render(c.Description))
		}
		if i == selected {
			rows = append(rows, l.styles.OverlaySelected.Render("> "+line))
		} else {
			rows = append(rows, l.styles.OverlayNormal.Render("  "+line))
		}
	}
	return strings.Join(rows, "\n")
}
