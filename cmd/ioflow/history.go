package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	ioerrors "github.com/utilitywarehouse/iolib/errors"
	"github.com/utilitywarehouse/iolib/history"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		flowName string
		status   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded flow runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return ioerrors.NewNotConfiguredError("Run history", "history.path", "IOFLOW_HISTORY_PATH")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), history.Filter{
				Flow:   flowName,
				Status: history.RunStatus(status),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}
			for _, run := range runs {
				line := fmt.Sprintf("%s  %-8s %-10s %s",
					run.StartedAt.Format(time.RFC3339), run.Flow, run.Status, run.ID)
				if run.Error != "" {
					line += "  " + run.Error
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flowName, "flow", "", "filter by flow name")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (running|succeeded|failed|skipped)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to show")
	return cmd
}
