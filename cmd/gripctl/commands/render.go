package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (c *cli) renderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the compose template and print it with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closeAll, err := c.pipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			plan, err := p.Prepare(cmd.Context())
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, plan.Content, 0o600); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes, sha256 %s)\n", output, len(plan.Content), plan.Hash)
				return nil
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), plan.Redacted())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the unmasked result to this file instead")
	return cmd
}
