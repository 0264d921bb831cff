package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arko-chat/adbridge/internal/config"
	"github.com/arko-chat/adbridge/internal/devhost"
	"github.com/arko-chat/adbridge/internal/logger"
	"github.com/spf13/cobra"
	"github.com/toqueteos/webbrowser"
)

var rootCmd = &cobra.Command{
	Use:   "adbridge-devhost",
	Short: "Run the ad bridge against a simulated ad network",
	Long: `adbridge-devhost stands in for the game engine during development.
Commands are posted to /api/commands, events stream from /ws/events,
and the status page at / shows every registered ad unit.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("addr", "", "listen address (overrides config)")
	flags.String("data-dir", "", "preference store directory (overrides config)")
	flags.Bool("in-memory", false, "keep preferences in memory only")
	flags.Int("frame-ms", -1, "simulated SDK callback delay in milliseconds")
	flags.String("policy", "", "what to do with events while paused: queue or drop")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", string(logger.Text), "text or json")
	flags.Bool("open", false, "open the status page in the system browser")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("log-format")
	slogger := logger.New(os.Stdout, cfg.Level(), logger.Format(format))

	host, err := devhost.New(cfg, slogger)
	if err != nil {
		return err
	}

	if open, _ := cmd.Flags().GetBool("open"); open {
		if err := webbrowser.Open(host.URL()); err != nil {
			slogger.Warn("failed to open browser", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = host.Run(ctx)
	slogger.Info("devhost stopped")
	return err
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if inMemory, _ := flags.GetBool("in-memory"); inMemory {
		cfg.DataDir = devhost.InMemory
	}
	if flags.Changed("frame-ms") {
		cfg.FrameMillis, _ = flags.GetInt("frame-ms")
	}
	if flags.Changed("policy") {
		cfg.EventPolicy, _ = flags.GetString("policy")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
}
