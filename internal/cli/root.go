// Package cli wires configuration, logging and the analysis client into the
// futuresight commands.
package cli

import (
	"fmt"
	"io"

	"github.com/interpretive-systems/futuresight/internal/analysis"
	"github.com/interpretive-systems/futuresight/internal/config"
	"github.com/interpretive-systems/futuresight/internal/prefs"
	"github.com/interpretive-systems/futuresight/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Execute runs the root command with the process arguments.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		return fmt.Errorf("execute: %w", err)
	}
	return nil
}

// NewRootCmd builds the command tree. With no subcommand it opens the TUI.
func NewRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:           "futuresight",
		Short:         "Terminal client for the Future Sight analysis service",
		Long:          "Future Sight: upload a CSV or Excel dataset, generate charts from plain-language prompts and chat about your data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, v, runFlags{})
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to a futuresight.yaml config file")
	root.PersistentFlags().String("api-url", "", "Analysis service URL (overrides api_url)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	// Lookups of flags defined just above cannot fail.
	_ = v.BindPFlag("api_url", root.PersistentFlags().Lookup("api-url"))
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	// Add subcommands
	root.AddCommand(newRunCmd(v))
	root.AddCommand(newAskCmd(v))
	root.AddCommand(newThemeCmd(v))

	return root
}

// app is what every command needs: configuration, a logger, the preference
// store and the service client.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	prefs  *prefs.Store
	client *analysis.Client
}

// setup loads configuration and builds the app. The returned func flushes
// the logger.
func setup(cmd *cobra.Command, v *viper.Viper) (*app, func(), error) {
	cfg, err := config.Load(v, stringFlag(cmd, "config"))
	if err != nil {
		return nil, nil, err
	}
	logger, err := config.InitLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger.Info("Configuration loaded",
		zap.String("api", cfg.APIURL),
		zap.String("prefs", cfg.PrefsPath))

	return &app{
		cfg:    cfg,
		logger: logger,
		prefs:  prefs.NewStore(cfg.PrefsPath),
		client: analysis.NewClient(cfg.APIURL, cfg.HTTPTimeout(), logger),
	}, config.Cleanup, nil
}

func (a *app) newSession() *session.Session {
	return session.New(session.Options{
		ClearStagedOnUpload: a.cfg.ClearStagedOnUpload,
		Themes:              a.prefs,
		Logger:              a.logger,
	})
}

// stringFlag returns a string flag, or "" when the command does not have it.
func stringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return v
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
