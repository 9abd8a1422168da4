package cmd

import (
	"github.com/joho/godotenv"
	"github.com/jsphweid/notegrid/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "notegrid",
	Short: "Turns note event tables into scores",
	Long: `notegrid reads a CSV of note events (milliseconds plus a tempo, or beats),
quantizes them, groups chords, fills gaps with rests and writes one part
per instrument as MusicXML, a piano roll image, MIDI or JSON.`,
	SilenceUsage: true,
}

func Execute() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables", nil)
	}
	cobra.CheckErr(rootCmd.Execute())
}
