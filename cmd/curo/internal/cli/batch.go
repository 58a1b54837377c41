package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/curo/schedule"
)

type batchOutput struct {
	File string `json:"file"`
	*schedule.Result
	Error string `json:"error,omitempty"`
}

func (a *app) batchCommand() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch file...",
		Short: "Solve several documents concurrently, one JSON line per file in argument order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			runID := uuid.New()
			logger := a.logger.With("run_id", runID.String())
			logger.Info("batch started", "files", len(files), "workers", workers)

			outputs := make([]batchOutput, len(files))
			g, _ := errgroup.WithContext(context.Background())
			if workers > 0 {
				g.SetLimit(workers)
			}
			for i, file := range files {
				i, file := i, file
				g.Go(func() error {
					opts := a.runOptions()
					opts.Logger = logger.With("file", file)
					outputs[i] = solveFile(file, opts)
					return nil
				})
			}
			_ = g.Wait()

			failed := 0
			for _, out := range outputs {
				if out.Error != "" {
					failed++
				}
				writeJSON(a.stdout, out)
			}
			logger.Info("batch finished", "files", len(files), "failed", failed)
			if failed > 0 {
				return exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "maximum concurrent solves (0 = unlimited)")
	return cmd
}

// solveFile runs one document, reporting failures in the output rather than
// aborting the batch.
func solveFile(path string, opts schedule.RunOptions) batchOutput {
	out := batchOutput{File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		out.Error = fmt.Sprintf("failed to read input: %v", err)
		return out
	}
	doc, err := schedule.Decode(data, schedule.FormatFromPath(path))
	if err != nil {
		out.Error = fmt.Sprintf("failed to parse input: %v", err)
		return out
	}
	res, err := schedule.Run(doc, opts)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Result = res
	return out
}
