/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/gmaffy/genome-finisher/artifacts"
	"github.com/gmaffy/genome-finisher/pipeline"
	"github.com/gmaffy/genome-finisher/utils"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <output directory>",
	Short: "Report how far a finishing run got",
	Long: `Reads the run log of an output directory made by "all" and prints the status of every stage.
Exits 0 if the run finished, 1 otherwise.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		finished, err := reportStatus(cmd.OutOrStdout(), args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		if !finished {
			os.Exit(1)
		}
	},
}

// stageStatus returns the last status program logged, or "" if none.
func stageStatus(entries []utils.LogEntry, program string) string {
	status := ""
	for _, e := range entries {
		if e.Program == program {
			status = e.Status
		}
	}
	return status
}

func reportStatus(w io.Writer, dir string) (bool, error) {
	layout := artifacts.NewLayout(dir, false)
	entries, err := utils.ParseLogFile(layout.RunLog)
	if err != nil {
		return false, fmt.Errorf("reading run log: %w", err)
	}

	for _, state := range pipeline.States() {
		if state == pipeline.StateDone {
			continue
		}
		status := stageStatus(entries, state.String())
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(w, "%-28s %s\n", state, status)
	}
	if e, ok := utils.LastFailure(entries); ok {
		fmt.Fprintf(w, "Last failure in %s: %s\n", e.Program, e.Error)
	}

	_, err = os.Stat(layout.Finished)
	switch {
	case err == nil:
		fmt.Fprintln(w, "Run finished")
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "Run not finished")
		return false, nil
	default:
		return false, err
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
