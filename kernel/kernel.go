// Package kernel registers the "iolib" Jupyter kernel, pointing its
// execution environment at the repository checkout so notebooks can import
// the library without installing it.
package kernel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/utilitywarehouse/iolib/git"
)

// Name is the fixed kernel name.
const Name = "iolib"

// HelperPackage is the notebook-execution helper the kernel launches.
const HelperPackage = "ipykernel"

// Spec is the kernel descriptor serialized to kernel.json.
type Spec struct {
	DisplayName string            `json:"display_name"`
	Language    string            `json:"language"`
	Argv        []string          `json:"argv"`
	Env         map[string]string `json:"env"`
}

// NewSpec builds the iolib kernel descriptor for the given interpreter and
// repository root.
func NewSpec(interpreter, repoRoot string) Spec {
	return Spec{
		DisplayName: Name,
		Language:    "python",
		Argv: []string{
			interpreter,
			"-m", "ipykernel_launcher",
			"-f", "{connection_file}",
		},
		Env: map[string]string{"PYTHONPATH": repoRoot},
	}
}

// Installer registers the kernel.
type Installer struct {
	// Interpreter is the interpreter path placed in the descriptor.
	// Defaults to the resolved "python3".
	Interpreter string

	// DataDir overrides the Jupyter data directory. Defaults to DataDir().
	DataDir string

	// Runner executes the helper-package query and install commands.
	Runner git.CommandRunner
}

// Install writes the kernel descriptor (overwriting any prior one) and makes
// sure the notebook-execution helper package is installed. Safe to re-run:
// the descriptor is replaced byte-for-byte and an existing kernel directory
// is not an error.
func (i *Installer) Install(ctx context.Context, workDir string) (string, error) {
	interpreter := i.Interpreter
	if interpreter == "" {
		var err error
		if interpreter, err = ResolveInterpreter(); err != nil {
			return "", err
		}
	}

	dataDir := i.DataDir
	if dataDir == "" {
		var err error
		if dataDir, err = DataDir(); err != nil {
			return "", err
		}
	}

	root := RepoRoot(workDir)
	kernelDir := filepath.Join(dataDir, "kernels", Name)
	if err := os.MkdirAll(kernelDir, 0o755); err != nil {
		return "", fmt.Errorf("create kernel dir: %w", err)
	}

	spec := NewSpec(interpreter, root)
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode kernel spec: %w", err)
	}
	specPath := filepath.Join(kernelDir, "kernel.json")
	if err := os.WriteFile(specPath, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write kernel spec: %w", err)
	}
	slog.Info("kernel registered", "name", Name, "path", specPath, "pythonpath", root)

	if err := i.ensureHelper(ctx, interpreter, workDir); err != nil {
		return "", err
	}
	return specPath, nil
}

// ensureHelper installs the helper package when it is absent. Presence is an
// explicit query against the interpreter's package registry, not a parse of
// the full listing.
func (i *Installer) ensureHelper(ctx context.Context, interpreter, workDir string) error {
	runner := i.Runner
	if runner == nil {
		runner = git.NewExecRunner()
	}

	if _, err := runner.Run(ctx, workDir, interpreter, "-m", "pip", "show", "--quiet", HelperPackage); err == nil {
		return nil
	}

	slog.Info("installing helper package", "package", HelperPackage)
	if _, err := runner.Run(ctx, workDir, interpreter, "-m", "pip", "install", HelperPackage); err != nil {
		return fmt.Errorf("install %s: %w", HelperPackage, err)
	}
	return nil
}

// RepoRoot derives the repository root from workDir by stripping any
// trailing "/scripts..." suffix. The caller is assumed to run from within or
// below a scripts directory directly under the repository root; any other
// location is returned unchanged.
func RepoRoot(workDir string) string {
	cleaned := filepath.Clean(workDir)
	if idx := strings.LastIndex(cleaned, "/scripts"); idx > 0 {
		rest := cleaned[idx+len("/scripts"):]
		if rest == "" || strings.HasPrefix(rest, "/") {
			return cleaned[:idx]
		}
	}
	return cleaned
}

// DataDir returns the Jupyter data directory: JUPYTER_DATA_DIR when set,
// otherwise ~/.local/share/jupyter.
func DataDir() (string, error) {
	if dir := os.Getenv("JUPYTER_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "jupyter"), nil
}

// ResolveInterpreter locates python3 on PATH.
func ResolveInterpreter() (string, error) {
	path, err := exec.LookPath("python3")
	if err != nil {
		return "", fmt.Errorf("resolve python3: %w", err)
	}
	return path, nil
}
