// Package cli holds the restaurant command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
)

type rootOptions struct {
	configPath string
	v          *viper.Viper
}

// load reads the configuration and points the shared logger at it.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.v, o.configPath)
	if err != nil {
		return nil, err
	}
	logger.Configure(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	return cfg, nil
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "restaurant",
		Short:         "Restaurant ordering backend",
		Long:          `restaurant serves the menu, order and bestseller API and runs the maintenance tasks around it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is config.yaml in . or deploy/)")
	cmd.PersistentFlags().String("data-dir", "", "data directory of the file backend")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = opts.v.BindPFlag("storage.data_dir", cmd.PersistentFlags().Lookup("data-dir"))
	_ = opts.v.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(
		newServeCommand(opts),
		newBestsellerCommand(opts),
		newImportMenuCommand(opts),
		newExportCommand(opts),
		newNotifyCommand(opts),
	)
	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
