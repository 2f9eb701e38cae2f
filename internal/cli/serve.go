package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/server"
)

// serveCommand starts the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagrams over HTTP for live previews",
		Long: `Serve every catalog diagram over HTTP:

  GET /diagrams               JSON list
  GET /diagrams/<name>.svg    rendered diagram (png, svg, pdf, jpg, dot)

Diagrams are composed on every request and rendered artifacts share the
cache used by render.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			out := printer{w: cmd.OutOrStdout()}
			out.info("Serving %d diagrams on %s", cat.Len(), StyleLink.Render("http://"+displayAddr(addr)+"/diagrams"))
			return server.New(cat, cfg.Style(), runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
