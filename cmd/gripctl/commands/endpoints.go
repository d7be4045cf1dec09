package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/GlintPay/grip/portainer"
	"github.com/spf13/cobra"
)

func (c *cli) endpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "Show the Portainer version and the environments it manages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.promptToken(cmd); err != nil {
				return err
			}

			client := c.portainerClient()

			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Portainer %s\n", status.Version)

			endpoints, err := client.ListEndpoints(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tURL\tSTATUS")
			for _, e := range endpoints {
				status := "down"
				if e.Status == portainer.EndpointUp {
					status = "up"
				}
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Id, e.Name, e.URL, status)
			}
			return tw.Flush()
		},
	}
}
