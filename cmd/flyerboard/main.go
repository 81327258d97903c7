package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/flyerboard/internal/app"
	"github.com/Adda-Baaj/flyerboard/internal/config"
	"github.com/Adda-Baaj/flyerboard/internal/logger"
)

var (
	cfg *config.Config
	log *logger.ZapLogger
)

var rootCmd = &cobra.Command{
	Use:           "flyerboard",
	Short:         "Discovers retailer flyers and publishes a combined index page",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := logger.Init(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l
		return nil
	},
}

// flushLogger syncs the zap logger. It runs after every command, failed ones included.
var flushLogger = func() {
	if log != nil {
		_ = log.Close()
	}
}

func init() {
	rootCmd.AddCommand(runCmd, renderCmd, discoverCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs the root command and returns the process exit code.
func execute(ctx context.Context, args []string) int {
	defer flushLogger()

	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "flyerboard: %v\n", err)
		return 1
	}
	return 0
}

// withRunner builds the runtime for one command and closes it afterwards.
func withRunner(ctx context.Context, fn func(*app.Runner) error) error {
	runner, err := app.NewRunner(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize runner", "error", err.Error())
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			log.ErrorObj("runner close failed", "error", err.Error())
		}
	}()
	return fn(runner)
}
