package cmd

import (
	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func addConfigFlags(c *cobra.Command) {
	flags := c.Flags()
	flags.String("mid", "", "MIDI file to read tempo and time signature from")
	flags.Float64("bpm", constants.DefaultTempo, "tempo used when the MIDI file has none")
	flags.String("timesig", constants.DefaultTimeSignature, "time signature used when the MIDI file has none")
	flags.Float64("quantum", constants.DefaultQuantum, "quantization grid in beats")
	flags.Int("max-notes", 0, "only use the first N rows after sorting (0 keeps all)")
	flags.StringSlice("formats", []string{"musicxml", "svg"}, "outputs to write: musicxml, svg, png, pdf, mid, json")
	flags.Bool("catalog", false, "record the conversion in the score catalog")
}

// configFromFlags starts from the environment defaults and applies only the
// flags the user actually set.
func configFromFlags(c *cobra.Command) (model.Config, error) {
	cfg := constants.GetDefaultConfig()
	flags := c.Flags()

	var err error
	if flags.Changed("bpm") {
		if cfg.Tempo, err = flags.GetFloat64("bpm"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("timesig") {
		if cfg.TimeSignature, err = flags.GetString("timesig"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("quantum") {
		if cfg.Quantum, err = flags.GetFloat64("quantum"); err != nil {
			return cfg, err
		}
	}
	if cfg.MaxRows, err = flags.GetInt("max-notes"); err != nil {
		return cfg, err
	}
	if cfg.MidiPath, err = flags.GetString("mid"); err != nil {
		return cfg, err
	}

	if cfg.Quantum <= 0 {
		return cfg, errors.Errorf("quantum must be positive, got %v", cfg.Quantum)
	}
	if cfg.Tempo <= 0 {
		return cfg, errors.Errorf("bpm must be positive, got %v", cfg.Tempo)
	}
	if cfg.MaxRows < 0 {
		return cfg, errors.Errorf("max-notes can't be negative, got %v", cfg.MaxRows)
	}
	return cfg, nil
}
