package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// render writes value as indented JSON, or rows as a table when the table
// format is selected.
func (a *App) render(value any, headers []string, rows [][]string) error {
	if a.flags.format != formatTable {
		return a.printJSON(value)
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.Stdout, "No data")
		return nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(a.Stdout, t.String())
	return nil
}

// renderFields renders a single record as a two column field/value table.
func (a *App) renderFields(value any, fields [][2]string) error {
	rows := make([][]string, 0, len(fields))
	for _, field := range fields {
		if field[1] == "" {
			continue
		}
		rows = append(rows, []string{field[0], field[1]})
	}
	return a.render(value, []string{"Field", "Value"}, rows)
}

func (a *App) printJSON(value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.Stdout, string(payload))
	return err
}
