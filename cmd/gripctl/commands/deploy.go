package commands

import (
	"fmt"
	"io"

	"github.com/GlintPay/grip/deploy"
	"github.com/spf13/cobra"
)

func (c *cli) deployCmd() *cobra.Command {
	var req deploy.Request

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Render the template and update the Portainer stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !req.DryRun {
				if err := c.promptToken(cmd); err != nil {
					return err
				}
			}

			p, closeAll, err := c.pipeline(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			report, err := p.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&req.DryRun, "dry-run", false, "render and validate only, print the masked result")
	cmd.Flags().BoolVar(&req.Prune, "prune", false, "remove services no longer in the file")
	cmd.Flags().BoolVar(&req.PullImage, "pull", false, "pull images before redeploying")
	cmd.Flags().BoolVar(&req.Force, "force", false, "update even when the stack already runs this file")
	return cmd
}

func printReport(w io.Writer, r *deploy.Report) {
	switch {
	case r.DryRun:
		_, _ = fmt.Fprint(w, r.Plan.Redacted())
		_, _ = fmt.Fprintf(w, "# dry run: %d variable(s), services %v\n", len(r.Plan.Used), r.Plan.Services)
	case r.Deployed:
		_, _ = fmt.Fprintf(w, "Stack %d deployed to endpoint %d (sha256 %s) in %v\n", r.StackId, r.Endpoint, r.Plan.Hash, r.Duration)
	default:
		_, _ = fmt.Fprintf(w, "Stack %d unchanged\n", r.StackId)
	}
}
