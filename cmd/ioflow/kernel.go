package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/utilitywarehouse/iolib/kernel"
)

func newKernelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Manage the notebook kernel for this repository",
	}
	cmd.AddCommand(newKernelInstallCmd())
	return cmd
}

func newKernelInstallCmd() *cobra.Command {
	var interpreter, dataDir string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the iolib notebook kernel pointing at this source tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interpreter == "" {
				resolved, err := kernel.ResolveInterpreter()
				if err != nil {
					return err
				}
				interpreter = resolved
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}

			installer := kernel.Installer{
				Interpreter: interpreter,
				DataDir:     dataDir,
			}
			specPath, err := installer.Install(cmd.Context(), cwd)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "kernel %q registered at %s\n", kernel.Name, specPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&interpreter, "interpreter", "", "python interpreter (default: python3 on PATH)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "jupyter data directory (default: $JUPYTER_DATA_DIR or ~/.local/share/jupyter)")
	return cmd
}
