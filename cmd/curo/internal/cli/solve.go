package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meenmo/curo/schedule"
)

func (a *app) solveCommand(kind schedule.Solve, short string) *cobra.Command {
	var inputPath, format string

	cmd := &cobra.Command{
		Use:     string(kind),
		Short:   short,
		Example: fmt.Sprintf("  curo %[1]s < loan.json\n  curo %[1]s --input loan.yaml", kind),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := strings.TrimSpace(inputPath)
			if path == "" {
				if f, ok := a.stdin.(*os.File); ok {
					if stat, err := f.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
						return fmt.Errorf("no input: pass --input or pipe a document on stdin")
					}
				}
			}

			data, err := readInput(a.stdin, path)
			if err != nil {
				return a.writeError(fmt.Sprintf("failed to read input: %v", err))
			}

			f := schedule.Format(format)
			if f == "" {
				f = schedule.FormatFromPath(path)
			}
			doc, err := schedule.Decode(data, f)
			if err != nil {
				return a.writeError(fmt.Sprintf("failed to parse input: %v", err))
			}
			doc.Solve = kind

			res, err := schedule.Run(doc, a.runOptions())
			if err != nil {
				return a.writeError(err.Error())
			}
			writeJSON(a.stdout, res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "document path (optional; if set, ignores stdin)")
	cmd.Flags().StringVar(&format, "format", "", "document format: json, yaml or toml (default from file extension, else json)")
	return cmd
}

func (a *app) runOptions() schedule.RunOptions {
	return schedule.RunOptions{Logger: a.logger, Solver: a.solver}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}
