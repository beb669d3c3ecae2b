package main

import (
	"context"
	"fmt"
	"time"

	"seaview-backend/internal/carousel"

	"github.com/spf13/cobra"
)

func newHeroCmd() *cobra.Command {
	var (
		interval time.Duration
		count    int
	)

	cmd := &cobra.Command{
		Use:   "hero",
		Short: "Cycle through the hero images until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval == 0 {
				interval = cfg.HeroInterval
			}
			c, err := carousel.New(cfg.HeroImages, interval)
			if err != nil {
				return err
			}

			changes := make(chan string)
			ctx, cancel := context.WithCancel(cmd.Context())
			if err := c.Mount(ctx, func(index int, image string) {
				select {
				case changes <- fmt.Sprintf("%d %s", index, image):
				case <-ctx.Done():
				}
			}); err != nil {
				cancel()
				return err
			}
			defer c.Unmount()
			defer cancel()

			out := cmd.OutOrStdout()
			idx, img := c.Current()
			fmt.Fprintf(out, "%d %s\n", idx, img)

			for shown := 0; count == 0 || shown < count; shown++ {
				select {
				case <-ctx.Done():
					return nil
				case line := <-changes:
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "time between images (defaults to HERO_INTERVAL_SECONDS)")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many changes (0 runs until interrupted)")
	return cmd
}
