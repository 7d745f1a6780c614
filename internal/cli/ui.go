package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/jtripath/maven-dependency-management-extension/pkg/model"
)

var (
	colorCyan   = lipgloss.Color("36")  // versions
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings, skipped work
	colorWhite  = lipgloss.Color("255") // coordinates, paths
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleDim renders secondary text such as counts and directories.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders coordinates and file paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// status writes the human-readable lines that accompany a command. Command
// data (tables, POMs, diagrams) goes to stdout; status lines go to w so they
// never end up in a redirected result.
type status struct {
	w io.Writer
}

func newStatus(w io.Writer) status {
	return status{w: w}
}

func (s status) success(format string, args ...any) {
	fmt.Fprintln(s.w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (s status) warning(format string, args ...any) {
	fmt.Fprintln(s.w, StyleWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (s status) info(format string, args ...any) {
	fmt.Fprintln(s.w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func (s status) detail(format string, args ...any) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (s status) file(path string) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// lineageWritten reports a lineage diagram saved to path.
func (s status) lineageWritten(gav string, res *model.Result, path string) {
	s.success("Lineage of %s %s", StyleValue.Render(gav),
		StyleDim.Render(fmt.Sprintf("(%s, %s)", plural(len(res.Lineage), "model"), plural(len(res.Imports), "import"))))
	s.file(path)
}

// cacheCleared reports the result of "cache clear".
func (s status) cacheCleared(count int, dir string) {
	s.success("Cleared %s", plural(count, "cached response"))
	s.detail("Directory: %s", dir)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
