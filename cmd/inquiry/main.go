// Command inquiry submits and checks contact form inquiries from the
// terminal using the same validation and delivery chain as the website.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"seaview-backend/config"
	"seaview-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var cfg *config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "inquiry",
		Short:         "Seaview Aged Care contact form tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg != nil {
				return nil
			}
			loaded, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			logger.Init(cfg.GinMode)
			return nil
		},
	}

	root.AddCommand(newSendCmd(), newValidateCmd(), newHeroCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
