package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memscrub/datarecording"
)

var reportCmd = &cobra.Command{
	Use:   "report [sqlite-file]",
	Short: "Print the runs recorded in a SQLite file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		printReport(args[0])
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func printReport(filename string) {
	reader := datarecording.NewReader(filename)
	defer reader.Close()

	reader.MapTable(datarecording.RunTableName, datarecording.RunEntry{})

	results, total, err := reader.Query(
		context.Background(),
		datarecording.RunTableName,
		datarecording.QueryParams{OrderBy: "StartTime"},
	)
	if err != nil {
		log.Fatalf("cannot read %s: %v", filename, err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w,
		"RUN\tSTART\tSEED\tREGION\tUNITS\tITERATIONS\tERRORS\tRESULT\tDURATION")

	for _, result := range results {
		entry := result.(datarecording.RunEntry)

		outcome := "PASS"
		if !entry.Passed {
			outcome = "FAIL"
		}

		fmt.Fprintf(w, "%s\t%s\t0x%08x\t[0x%x, 0x%x)\t%d\t%d\t%d\t%s\t%dms\n",
			entry.RunID, entry.StartTime, entry.Seed,
			entry.FirstAddr, entry.LastAddr,
			entry.UnitCount, entry.Iterations, entry.Errors,
			outcome, entry.DurationMS)
	}

	w.Flush()
	fmt.Printf("%d runs\n", total)
}
