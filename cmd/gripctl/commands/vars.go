package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/GlintPay/grip/compose"
	"github.com/spf13/cobra"
)

func (c *cli) varsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vars",
		Short: "List the template variables and where each one is resolved from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := c.app.Deploy.Compose.Template
			body, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("reading template: %w", err)
			}

			names, err := compose.Variables(compose.Template{Name: name, Body: body})
			if err != nil {
				return err
			}

			p, closeAll, err := c.pipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			values, meta, err := p.Merger.Merge(cmd.Context(), p.Sources)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tSOURCE")
			for _, n := range names {
				source := "MISSING"
				if _, ok := values[n]; ok {
					source = meta.Origins[n]
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", n, source)
			}
			return tw.Flush()
		},
	}
}
