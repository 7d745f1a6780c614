package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jtripath/maven-dependency-management-extension/pkg/overrides"
)

// Output formats accepted by --format.
const (
	formatTable      = "table"
	formatJSON       = "json"
	formatProperties = "properties"
	formatDOT        = "dot"
	formatSVG        = "svg"
)

// writeOverrides renders an override table in the requested format.
func writeOverrides(w io.Writer, m *overrides.Map, format string) error {
	switch format {
	case formatTable, "":
		return writeOverridesTable(w, m)
	case formatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case formatProperties:
		_, err := io.WriteString(w, m.Properties(""))
		return err
	}
	return fmt.Errorf("unsupported format %q (want %s, %s or %s)", format, formatTable, formatJSON, formatProperties)
}

func writeOverridesTable(w io.Writer, m *overrides.Map) error {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(colorWhite)
	versionStyle := lipgloss.NewStyle().Foreground(colorCyan)
	missingStyle := lipgloss.NewStyle().Foreground(colorDim)

	rows := make([][]string, 0, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		if v == "" {
			v = "-"
		}
		rows = append(rows, []string{k, v})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Artifact", "Version").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return keyStyle
			}
			if row >= 0 && row < len(rows) && rows[row][1] == "-" {
				return missingStyle
			}
			return versionStyle
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), StyleDim.Render(fmt.Sprintf("  %d entries", m.Len())))
	return err
}
