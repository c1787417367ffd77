package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/utilitywarehouse/iolib/artifact"
)

func newArtifactsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect and prune stored run artifacts",
	}
	cmd.AddCommand(newArtifactsListCmd(opts), newArtifactsCleanupCmd(opts))
	return cmd
}

func artifactStore(opts *rootOptions) (*artifact.Store, error) {
	return artifact.NewStore(filepath.Join(opts.repoRoot, ".ioflow"))
}

func newArtifactsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [run-id]",
		Short: "List stored runs, or the artifacts of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := artifactStore(opts)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				names, err := store.List(args[0])
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			runs, err := store.Runs()
			if err != nil {
				return err
			}
			for _, id := range runs {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newArtifactsCleanupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Archive old runs and delete expired archives",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := artifactStore(opts)
			if err != nil {
				return err
			}

			result, err := store.Cleanup(artifact.DefaultRetentionConfig())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archived %d run(s), deleted %d archive(s)\n",
				len(result.Archived), len(result.Deleted))
			return nil
		},
	}
}
