package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jsphweid/notegrid/chord"
	"github.com/jsphweid/notegrid/midi"
	"github.com/jsphweid/notegrid/model"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
	addConfigFlags(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect PATH",
	Short: "Inspects a MIDI file or a note table",
	Long: `For a .mid file, prints the tempo and time signature the converter would use.
For a .csv table, prints every part's timeline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		switch strings.ToLower(filepath.Ext(path)) {
		case ".mid", ".midi":
			inspectMidi(cmd.OutOrStdout(), path)
			return nil
		}

		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		s, err := ConvertFile(path, cfg)
		if err != nil {
			return err
		}
		printScore(cmd.OutOrStdout(), s)
		return nil
	},
}

func inspectMidi(w io.Writer, path string) {
	bpm, ts := midi.ExtractTempoAndTimeSig(path)
	if bpm != nil {
		fmt.Fprintf(w, "tempo: %.2f\n", *bpm)
	} else {
		fmt.Fprintln(w, "tempo: none")
	}
	if ts != nil {
		fmt.Fprintf(w, "time signature: %v\n", *ts)
	} else {
		fmt.Fprintln(w, "time signature: none")
	}
}

func printScore(w io.Writer, s model.Score) {
	fmt.Fprintf(w, "mode: %v, time signature: %v, quantum: %v", s.Mode, s.TimeSignature, s.Quantum)
	if s.Mode == model.TimeMode {
		fmt.Fprintf(w, ", tempo: %.2f", s.Tempo)
	}
	fmt.Fprintln(w)

	for _, part := range s.Parts {
		fmt.Fprintf(w, "part %v (%d units)\n", part.ID, len(part.Units))
		for _, u := range part.Units {
			fmt.Fprintf(w, "  %-6v start=%-8v dur=%-8v %v\n", u.Kind, u.Start, u.Duration, chord.CreateChordKey(u.Pitches))
		}
	}
}
