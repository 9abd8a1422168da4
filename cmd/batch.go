package cmd

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/logger"
	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

func init() {
	rootCmd.AddCommand(batchCmd)
	addConfigFlags(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch DIR [maxNum]",
	Short: "Converts every note table under a directory",
	Long:  `Converts every .csv under DIR into OUT_PATH (default ./out). Tables that fail are skipped.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 2 {
			arg1, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrap(err, "maxNum must be a number")
			}
			maxNum = arg1
		}

		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		formats, _ := cmd.Flags().GetStringSlice("formats")
		catalog, _ := cmd.Flags().GetBool("catalog")

		failed, err := runBatch(args[0], maxNum, cfg, formats, catalog)
		if err != nil {
			return err
		}
		if failed > 0 {
			logger.Warn("Some tables were skipped", logger.Fields{"skipped": failed})
		}
		return nil
	},
}

// runBatch converts each table and returns how many were skipped.
func runBatch(dir string, maxNum int, cfg model.Config, formats []string, catalog bool) (int, error) {
	outDir := constants.GetOutDir()
	if err := util.EnsureOutputDir(outDir); err != nil {
		return 0, err
	}
	paths, err := util.GatherAllTablePaths(dir, maxNum)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		logger.Warn("No tables found", logger.Fields{"dir": dir})
		return 0, nil
	}

	p := mpb.New(mpb.WithWidth(64))
	bar := p.AddBar(int64(len(paths)),
		mpb.PrependDecorators(
			decor.Name("Converting: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	var failed int
	for _, path := range paths {
		if err := convertOne(path, outBaseFor(dir, path, outDir), cfg, formats, catalog); err != nil {
			logger.Error("Skipping table", err, logger.Fields{"path": path})
			failed++
		}
		bar.Increment()
	}
	p.Wait()
	return failed, nil
}

// outBaseFor mirrors the table's place under dir inside outDir, so tables
// sharing a name in different subdirectories don't overwrite each other.
func outBaseFor(dir, path, outDir string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel)))
}

func convertOne(path, outBase string, cfg model.Config, formats []string, catalog bool) error {
	s, err := ConvertFile(path, cfg)
	if err != nil {
		return err
	}
	if err := util.EnsureOutputDir(filepath.Dir(outBase)); err != nil {
		return err
	}
	if _, err := WriteOutputs(s, outBase, formats); err != nil {
		return err
	}
	if catalog {
		recordInCatalog(path, s)
	}
	return nil
}
