package cli

import (
	"github.com/spf13/cobra"
)

// dotCommand prints the DOT source of one diagram.
func (c *CLI) dotCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "dot <diagram>",
		Short:             "Print the DOT source of a diagram",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeDiagramNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			d, err := cat.Build(args[0], cfg.Style())
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			src, err := runner.Compile(cmd.Context(), d)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(src)
			return err
		},
	}
}

// completeDiagramNames completes catalog names for render and dot.
func (c *CLI) completeDiagramNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cat, err := c.loadCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, e := range cat.List() {
		names = append(names, e.Name+"\t"+e.Description)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
