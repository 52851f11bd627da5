package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/planner/internal/model"
)

// ProgressBar renders "[███░░] done/total" in the current theme.
func ProgressBar(done, total, width int) string {
	t := Current()
	if width <= 0 {
		width = 28
	}
	filled := 0
	if total > 0 {
		filled = int(float64(done) / float64(total) * float64(width))
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat(t.BarFull, filled) + strings.Repeat(t.BarEmpty, width-filled) + fmt.Sprintf("] %d/%d", done, total)
}

// PanelString frames inner with the current theme's border.
func PanelString(inner string) string {
	t := Current()
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

// Header is the title line with live counts.
func Header(items []model.Item) string {
	t := Current()
	eaten, pending := model.Stats(items)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Summer Planner"),
		t.Success.Render(t.SymDone), eaten,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(items),
	)
}

// ItemLine renders one row: box, name, eaten label.
func ItemLine(it model.Item) string {
	t := Current()
	if it.Eaten {
		return fmt.Sprintf("%s %s  %s", t.Success.Render(t.BoxChecked), t.Eaten.Render(it.Name), t.Muted.Render(t.LabelEaten))
	}
	return fmt.Sprintf("%s %s  %s", t.Muted.Render(t.BoxUnchecked), it.Name, t.Pending.Render(t.LabelPending))
}

// ListLines renders items for the non-interactive list, optionally split
// into to-eat and eaten sections.
func ListLines(items []model.Item, group bool) []string {
	t := Current()
	lines := []string{Header(items)}
	if len(items) == 0 {
		return append(lines, t.Muted.Render("nothing planned yet"))
	}
	eaten, _ := model.Stats(items)
	lines = append(lines, ProgressBar(eaten, len(items), 28), "")

	if !group {
		for i, it := range items {
			lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render(fmt.Sprintf("%2d.", i+1)), ItemLine(it)))
		}
		return lines
	}

	var todo, done []string
	for _, it := range items {
		if it.Eaten {
			done = append(done, "  "+ItemLine(it))
		} else {
			todo = append(todo, "  "+ItemLine(it))
		}
	}
	if len(todo) > 0 {
		lines = append(lines, t.Pending.Render(strings.ToUpper(t.LabelPending)))
		lines = append(lines, todo...)
	}
	if len(done) > 0 {
		lines = append(lines, t.Success.Render(strings.ToUpper(t.LabelEaten)))
		lines = append(lines, done...)
	}
	return lines
}
