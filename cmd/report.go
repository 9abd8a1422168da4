package cmd

import (
	"fmt"

	"github.com/jsphweid/notegrid/db"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report ID...",
	Short: "Prints catalog records",
	Long:  `Prints the catalog records of past conversions (see convert --catalog).`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := db.Connect()
		if err != nil {
			return err
		}
		records, err := catalog.Get(args)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, id := range args {
			rec, ok := records[id]
			if !ok {
				fmt.Fprintf(w, "%v: not found\n", id)
				continue
			}
			fmt.Fprintf(w, "%v: %v, %v parts, %v units, %v mode, %v", rec.ID, rec.Source, rec.Parts, rec.Units, rec.Mode, rec.TimeSignature)
			if rec.Tempo > 0 {
				fmt.Fprintf(w, " @ %v bpm", rec.Tempo)
			}
			fmt.Fprintf(w, ", %v\n", rec.CreatedAt)
		}
		return nil
	},
}
