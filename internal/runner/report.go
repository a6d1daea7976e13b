package runner

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/hk/internal/output"
)

const lineWidth = 79

type reporter struct {
	printer *output.Printer
	verbose bool

	pass lipgloss.Style
	fail lipgloss.Style
	skip lipgloss.Style
	dim  lipgloss.Style
}

func newReporter(p *output.Printer, color, verbose bool) *reporter {
	rep := &reporter{printer: p, verbose: verbose}
	if color {
		rep.pass = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		rep.fail = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		rep.skip = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		rep.dim = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	} else {
		plain := lipgloss.NewStyle()
		rep.pass, rep.fail, rep.skip, rep.dim = plain, plain, plain, plain
	}
	return rep
}

// result prints one status line in the classic dot-leader format:
//
//	format code..........................................Passed
func (rep *reporter) result(res Result) {
	name := res.Hook.DisplayName()
	status := res.Status.String()

	var line string
	switch res.Status {
	case StatusPassed:
		line = leader(name, status) + rep.pass.Render(status)
	case StatusFailed:
		line = leader(name, status) + rep.fail.Render(status)
	case StatusSkipped:
		tag := "(" + res.SkipReason + ")"
		line = leader(name, tag+" "+status) + rep.dim.Render(tag) + " " + rep.skip.Render(status)
	}
	rep.printer.Println(line)

	if res.Status == StatusFailed {
		rep.printer.Printf("- hook id: %s\n", res.Hook.ID)
		if res.Err != nil {
			rep.printer.Printf("- %v\n", res.Err)
		}
	}
	if len(res.Output) > 0 && (res.Status == StatusFailed || rep.verbose || res.Hook.Verbose) {
		rep.printer.Println()
		rep.printer.Print(indent(string(res.Output)))
		rep.printer.Println()
	}
}

// leader pads name with dots so the status column lines up.
func leader(name, status string) string {
	dots := lineWidth - len(name) - len(status)
	if dots < 3 {
		dots = 3
	}
	return name + strings.Repeat(".", dots)
}

func indent(s string) string {
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
