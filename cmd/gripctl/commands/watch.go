package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GlintPay/grip/deploy"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultWatchInterval = time.Minute

func (c *cli) watchCmd() *cobra.Command {
	var (
		interval time.Duration
		req      deploy.Request
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render on an interval and deploy whenever the result changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = time.Duration(c.app.Deploy.Watch.IntervalMillis) * time.Millisecond
			}
			if interval <= 0 {
				interval = defaultWatchInterval
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, closeAll, err := c.pipeline(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			w := &deploy.Watcher{Runner: p, Request: req, Interval: interval}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}

			<-ctx.Done()
			log.Info().Msg("Stopping watcher")

			w.Stop()
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "check interval (default deploy.watch.interval or 1m)")
	cmd.Flags().BoolVar(&req.Prune, "prune", false, "remove services no longer in the file")
	cmd.Flags().BoolVar(&req.PullImage, "pull", false, "pull images before redeploying")
	return cmd
}
