package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up at the repository root.
const DefaultFileName = ".ioflow.yaml"

// ErrNotFound indicates the config file does not exist.
var ErrNotFound = errors.New("config file not found")

// Stage is one static-analysis pass of the check flow.
type Stage struct {
	// Name identifies the stage in logs and run history.
	Name string `yaml:"name" validate:"required"`

	// Command is the analyser invocation, program first.
	Command []string `yaml:"command" validate:"required,min=1"`

	// Advisory stages report findings without failing the flow.
	Advisory bool `yaml:"advisory"`
}

// Lint configures the static-analysis stages, run in order.
type Lint struct {
	Stages []Stage `yaml:"stages" validate:"required,min=1,dive"`
}

// Test configures the test-runner step.
type Test struct {
	Command []string `yaml:"command" validate:"required,min=1"`
}

// Install configures the package-install step that precedes every flow.
type Install struct {
	Command []string `yaml:"command" validate:"required,min=1"`
}

// Docs configures documentation generation and wiki publishing.
type Docs struct {
	// OutputDir receives the generated files.
	OutputDir string `yaml:"output_dir" validate:"required"`

	// Prefix marks generated files in the wiki working copy. Stale
	// files with this prefix are removed before publishing.
	Prefix string `yaml:"prefix" validate:"required"`

	// WikiURL is the wiki remote. Required for the publish flow only.
	WikiURL string `yaml:"wiki_url"`

	// WikiBranch is the wiki's default branch.
	WikiBranch string `yaml:"wiki_branch" validate:"required"`

	// AuthorName and AuthorEmail form the fixed commit identity.
	AuthorName  string `yaml:"author_name" validate:"required"`
	AuthorEmail string `yaml:"author_email" validate:"required,email"`

	// CommitMessage is the fixed publish commit message.
	CommitMessage string `yaml:"commit_message" validate:"required"`
}

// Notify configures run notifications.
type Notify struct {
	// WebhookURL receives run events as JSON POSTs. Empty disables it.
	WebhookURL string `yaml:"webhook_url" validate:"omitempty,url"`
}

// History configures the local run journal.
type History struct {
	// Path is the SQLite database file. Empty disables the journal.
	Path string `yaml:"path"`
}

// Config is the full ioflow configuration.
type Config struct {
	// MainBranch is the protected branch flows are gated on.
	MainBranch string `yaml:"main_branch" validate:"required"`

	Install Install `yaml:"install"`
	Lint    Lint    `yaml:"lint"`
	Test    Test    `yaml:"test"`
	Docs    Docs    `yaml:"docs"`
	Notify  Notify  `yaml:"notify"`
	History History `yaml:"history"`
}

// Default returns the built-in configuration. It mirrors the project's
// hosted CI: a hard syntax/undefined-name gate, an advisory style pass
// with complexity and line-length ceilings, then the test suite.
func Default() Config {
	return Config{
		MainBranch: "main",
		Install: Install{
			Command: []string{"python", "-m", "pip", "install", ".[dev]"},
		},
		Lint: Lint{
			Stages: []Stage{
				{
					Name: "syntax",
					Command: []string{
						"flake8", ".", "--count",
						"--select=E9,F63,F7,F82",
						"--show-source", "--statistics",
					},
				},
				{
					Name: "style",
					Command: []string{
						"flake8", ".", "--count", "--exit-zero",
						"--max-complexity=10",
						"--max-line-length=127",
						"--statistics",
					},
					Advisory: true,
				},
			},
		},
		Test: Test{
			Command: []string{"pytest", "tests/"},
		},
		Docs: Docs{
			OutputDir:     "docs",
			Prefix:        "iolib.",
			WikiBranch:    "master",
			AuthorName:    "Documentation Bot",
			AuthorEmail:   "docs@utilitywarehouse.co.uk",
			CommitMessage: "Update documentation",
		},
	}
}

// Load reads path on top of the defaults and applies environment
// overrides. A missing file returns ErrNotFound; callers that treat
// the file as optional should fall back to LoadEnv.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path expected
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnv returns the defaults with environment overrides applied.
func LoadEnv() (Config, error) {
	cfg := Default()
	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural constraints on a config.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Environment overrides. Only deployment-varying values are exposed;
// command lists stay in the file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("IOFLOW_MAIN_BRANCH"); v != "" {
		cfg.MainBranch = v
	}
	if v := os.Getenv("IOFLOW_WIKI_URL"); v != "" {
		cfg.Docs.WikiURL = v
	}
	if v := os.Getenv("IOFLOW_WIKI_BRANCH"); v != "" {
		cfg.Docs.WikiBranch = v
	}
	if v := os.Getenv("IOFLOW_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
	if v := os.Getenv("IOFLOW_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
}
