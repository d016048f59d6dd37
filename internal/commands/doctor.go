package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/recon/internal/doctor"
)

func newDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor <bank.csv> [books.csv]",
		Short: "Diagnose CSV exports and suggest profile mappings",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args)
		},
	}
	return cmd
}

func runDoctor(cmd *cobra.Command, paths []string) error {
	w := cmd.OutOrStdout()

	reports := make([]*doctor.FileReport, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		rep, err := doctor.Analyze(f, path)
		f.Close()
		if err != nil {
			return err
		}
		rep.Write(w)
		fmt.Fprintln(w)
		reports = append(reports, rep)
	}

	if len(reports) == 2 {
		from, to, ok := doctor.DateOverlap(reports[0], reports[1])
		if ok {
			fmt.Fprintf(w, "Date ranges overlap: %s to %s\n",
				from.Format("2006-01-02"), to.Format("2006-01-02"))
		} else {
			fmt.Fprintln(w, "Date ranges do not overlap; the exports may cover different periods.")
		}
	}
	return nil
}
