package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/Makepad-fr/planner/internal/ui"
)

func (m Model) View() string {
	t := ui.Current()
	var b strings.Builder

	b.WriteString(ui.Header(m.state.Items))
	if m.state.Busy() {
		b.WriteString("  " + m.spin.View())
	}
	b.WriteString("\n")
	eaten, _ := m.state.Stats()
	b.WriteString(ui.ProgressBar(eaten, len(m.state.Items), 28))
	b.WriteString("\n")

	switch {
	case m.state.Err != nil:
		b.WriteString(t.Error.Render("✖ " + m.state.Err.Error()))
		b.WriteString(" " + t.Muted.Render("(r to reload)"))
	case m.state.Rejected:
		b.WriteString(t.Error.Render("! " + m.state.Status))
	case m.state.Status != "":
		b.WriteString(t.Accent.Render(m.state.Status))
	default:
		b.WriteString(t.Muted.Render(" "))
	}
	b.WriteString("\n\n")

	if len(m.state.Items) == 0 {
		b.WriteString(t.Muted.Render("nothing planned yet"))
	} else {
		b.WriteString(m.list.View())
	}

	var bindings []key.Binding
	if m.adding {
		b.WriteString("\n" + ui.PanelString("Add food\n"+m.ti.View()))
		bindings = []key.Binding{m.keys.Submit, m.keys.Cancel}
	} else {
		bindings = append(m.keys.listKeys(), m.keys.Quit)
	}
	b.WriteString("\n" + t.Help.Render(m.help.ShortHelpView(bindings)))

	return ui.PanelString(b.String())
}
