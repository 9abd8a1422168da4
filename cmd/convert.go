package cmd

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/notegrid/db"
	"github.com/jsphweid/notegrid/logger"
	"github.com/jsphweid/notegrid/midi"
	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/musicxml"
	"github.com/jsphweid/notegrid/render"
	"github.com/jsphweid/notegrid/score"
	"github.com/jsphweid/notegrid/table"
	"github.com/jsphweid/notegrid/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(convertCmd)
	addConfigFlags(convertCmd)
	convertCmd.Flags().String("csv", "", "note table to convert (required)")
	convertCmd.Flags().String("out", "partition", "output base name, extensions are added per format")
	convertCmd.MarkFlagRequired("csv")
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Converts a note table into a score",
	Long:  `Converts a note table into a score`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		csvPath, _ := cmd.Flags().GetString("csv")
		outBase, _ := cmd.Flags().GetString("out")
		formats, _ := cmd.Flags().GetStringSlice("formats")
		catalog, _ := cmd.Flags().GetBool("catalog")

		s, err := ConvertFile(csvPath, cfg)
		if err != nil {
			return err
		}
		outs, err := WriteOutputs(s, outBase, formats)
		if err != nil {
			return err
		}
		for _, o := range outs {
			logger.Info("Wrote output", logger.Fields{"path": o})
		}
		if catalog {
			recordInCatalog(csvPath, s)
		}
		return nil
	},
}

// ConvertFile reads the table at path and runs the conversion pipeline.
func ConvertFile(path string, cfg model.Config) (model.Score, error) {
	t, err := table.ReadFile(path, cfg.MaxRows)
	if err != nil {
		return model.Score{}, errors.Wrapf(err, "could not read %v", path)
	}
	return score.Convert(t, cfg)
}

// WriteOutputs writes one file per format next to outBase and returns the
// paths written.
func WriteOutputs(s model.Score, outBase string, formats []string) ([]string, error) {
	normalized := make([]string, len(formats))
	for i, format := range formats {
		normalized[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	}

	var outs []string
	for _, format := range util.Unique(normalized) {
		path := outBase + "." + format

		var err error
		switch format {
		case "musicxml", "xml":
			err = writeMusicXML(s, path)
		case "svg", "png", "pdf", "jpg", "jpeg", "tif", "tiff", "eps":
			err = render.Save(s, filepath.Base(outBase), path)
		case "mid", "midi":
			err = midi.WriteScore(s, path)
		case "json":
			err = util.WriteJSON(path, s)
		default:
			err = errors.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return outs, err
		}
		outs = append(outs, path)
	}
	return outs, nil
}

func writeMusicXML(s model.Score, path string) error {
	if err := musicxml.WriteFile(path, s); err != nil {
		return err
	}
	removed, err := musicxml.StripLiaisonsFile(path)
	if err != nil {
		return err
	}
	if removed > 0 {
		logger.Info("Removed ties and slurs", logger.Fields{"path": path, "removed": removed})
	}
	return nil
}

func recordInCatalog(source string, s model.Score) {
	catalog, err := db.Connect()
	if err != nil {
		logger.Warn("Score catalog unavailable", logger.Fields{"error": err.Error()})
		return
	}
	rec := db.Record(uuid.New().String(), source, s, time.Now().UTC().Format(time.RFC3339))
	if err := catalog.Put(rec); err != nil {
		logger.Warn("Could not record score in catalog", logger.Fields{"error": err.Error()})
		return
	}
	logger.Info("Recorded score in catalog", logger.Fields{"id": rec.ID})
}
