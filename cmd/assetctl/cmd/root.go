// Package cmd holds the assetctl commands. Every command talks to the REST
// backend through the dashboard controller, so the terminal sees the same
// validation messages and feedback as any other front end.
package cmd

import (
	"context"
	"os"

	"assets-manager/internal/client"
	"assets-manager/internal/config"
	"assets-manager/internal/dashboard"
	"assets-manager/internal/listview"
	"assets-manager/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	flagAPI     = "api"
	flagTimeout = "timeout"
	flagVerbose = "verbose"
)

// app is built once per invocation by the root command.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	client *client.Client
	dash   *dashboard.Dashboard
	view   *listview.View
}

type appKey struct{}

func appFrom(ccmd *cobra.Command) *app {
	return ccmd.Context().Value(appKey{}).(*app)
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "assetctl",
		Short:        "Manage the asset inventory from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(ccmd *cobra.Command, _ []string) error {
			a, err := newApp(ccmd)
			if err != nil {
				return err
			}
			ccmd.SetContext(context.WithValue(ccmd.Context(), appKey{}, a))
			return nil
		},
		PersistentPostRun: func(ccmd *cobra.Command, _ []string) {
			a := appFrom(ccmd)
			a.dash.Close()
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().String(flagAPI, "", "base URL of the assets API (default $API_BASE_URL)")
	root.PersistentFlags().Duration(flagTimeout, 0, "request timeout (default $API_TIMEOUT)")
	root.PersistentFlags().BoolP(flagVerbose, "v", false, "log requests to stderr")

	root.AddCommand(
		newListCmd(),
		newCreateCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newExportCmd(),
		newImportCmd(),
	)
	return root
}

func newApp(ccmd *cobra.Command) (*app, error) {
	cfg := config.Load()
	if v, _ := ccmd.Flags().GetString(flagAPI); v != "" {
		cfg.APIBaseURL = v
	}
	if v, _ := ccmd.Flags().GetDuration(flagTimeout); v > 0 {
		cfg.APITimeout = v
	}
	level := "warn"
	if v, _ := ccmd.Flags().GetBool(flagVerbose); v {
		level = "debug"
	}

	log, err := logger.New(level, cfg.Environment)
	if err != nil {
		return nil, err
	}
	c := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.APITimeout),
		client.WithLogger(log),
	)
	return &app{
		cfg:    cfg,
		log:    log,
		client: c,
		dash: dashboard.New(c,
			dashboard.WithFeedbackTTL(cfg.FeedbackTTL),
			dashboard.WithLogger(log),
		),
		view: listview.New(log),
	}, nil
}

// Execute runs the command tree against os.Args.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
