package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/utilitywarehouse/iolib/artifact"
	"github.com/utilitywarehouse/iolib/config"
	"github.com/utilitywarehouse/iolib/flow"
	"github.com/utilitywarehouse/iolib/history"
	"github.com/utilitywarehouse/iolib/notify"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configPath string
	repoRoot   string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "ioflow",
		Short:         "Automation flows for the iolib repository",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <repo>/.ioflow.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.repoRoot, "repo", "r", ".", "repository working copy")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newCheckCmd(opts),
		newPublishDocsCmd(opts),
		newKernelCmd(),
		newReleaseCmd(opts),
		newHistoryCmd(opts),
		newArtifactsCmd(opts),
	)
	return cmd
}

// loadConfig resolves the config file. A missing default file falls
// back to built-in defaults plus environment overrides.
func (o *rootOptions) loadConfig() (config.Config, error) {
	path := o.configPath
	if path == "" {
		path = filepath.Join(o.repoRoot, config.DefaultFileName)
		cfg, err := config.Load(path)
		if errors.Is(err, config.ErrNotFound) {
			return config.LoadEnv()
		}
		return cfg, err
	}
	return config.Load(path)
}

// buildRunner assembles a flow runner with the configured services.
func (o *rootOptions) buildRunner(cfg config.Config) (*flow.Runner, func(), error) {
	services := flow.Services{
		Notifier: notify.NewLogNotifier(nil),
	}
	cleanup := func() {}

	if cfg.Notify.WebhookURL != "" {
		services.Notifier = notify.NewMultiNotifier(
			services.Notifier,
			notify.NewWebhookNotifier(cfg.Notify.WebhookURL, nil),
		)
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		services.History = store
		cleanup = func() { store.Close() }
	}

	store, err := artifact.NewStore(filepath.Join(o.repoRoot, ".ioflow"))
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	services.Artifacts = store

	return &flow.Runner{
		Config:   cfg,
		RepoRoot: o.repoRoot,
		Services: services,
	}, cleanup, nil
}
