package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// listRow summarises one catalog diagram.
type listRow struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Nodes       int    `json:"nodes"`
	Clusters    int    `json:"clusters"`
	Edges       int    `json:"edges"`
}

// listCommand prints the diagrams of the active catalog.
func (c *CLI) listCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the diagrams of the catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}

			style := cfg.Style()
			rows := make([]listRow, 0, cat.Len())
			for _, e := range cat.List() {
				d, err := cat.Build(e.Name, style)
				if err != nil {
					return err
				}
				rows = append(rows, listRow{
					Name:        e.Name,
					Title:       e.Title,
					Description: e.Description,
					Nodes:       d.NodeCount(),
					Clusters:    d.ClusterCount(),
					Edges:       d.EdgeCount(),
				})
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderListTable(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func renderListTable(rows []listRow) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			r.Name,
			r.Title,
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.Clusters),
			strconv.Itoa(r.Edges),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Diagram", "Title", "Nodes", "Clusters", "Edges").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return base.Foreground(colorCyan)
			case col >= 2:
				return base.Foreground(colorGray).Align(lipgloss.Right)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}
