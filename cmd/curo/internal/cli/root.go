// Package cli implements the curo command tree.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/curo/solve"
)

// exitError carries a non-usage exit code out of a command.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	logLevel   string

	logger *slog.Logger
	solver *solve.Config
}

// Run executes the CLI and returns the process exit code: 0 on success,
// 1 when a calculation fails (a JSON error is printed) and 2 on usage errors.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "Error: %v\n\n", err)
	fmt.Fprint(stderr, root.UsageString())
	return 2
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "curo",
		Short: "Solve cash flow schedules for an unknown value or the implicit interest rate",
		Long: `curo reads a schedule document (JSON, YAML or TOML) describing a series
of advances, payments and charges, and solves either for the unknown
cash flow value at a given rate or for the rate implied by known values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "solver config file (.toml, .yaml or .yml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default $CURO_LOG_LEVEL or warn)")

	root.AddCommand(
		a.solveCommand("value", "Solve for the unknown cash flow value at the document's interest rate"),
		a.solveCommand("rate", "Solve for the interest rate implicit in fully known cash flows"),
		a.batchCommand(),
	)
	return root
}

func (a *app) setup() error {
	level := a.logLevel
	if level == "" {
		level = os.Getenv("CURO_LOG_LEVEL")
	}
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{Level: lvl}))

	if strings.TrimSpace(a.configPath) != "" {
		c, err := loadSolverConfig(a.configPath)
		if err != nil {
			return err
		}
		a.solver = &c
		a.logger.Debug("solver config loaded", "path", a.configPath, "max_iterations", c.MaxIterations, "tolerance", c.Tolerance)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}

// loadSolverConfig reads a solve.Config from TOML or YAML. Unset fields
// keep their DefaultConfig values.
func loadSolverConfig(path string) (solve.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return solve.Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	c := solve.DefaultConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".json":
		err = json.Unmarshal(data, &c)
	default:
		return solve.Config{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return solve.Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, nil
}

type errorOutput struct {
	Error string `json:"error"`
}

func writeJSON(w io.Writer, v any) {
	b, _ := json.Marshal(v)
	fmt.Fprintln(w, string(b))
}

func (a *app) writeError(msg string) error {
	writeJSON(a.stdout, errorOutput{Error: msg})
	return exitError{code: 1}
}
