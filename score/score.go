package score

import (
	"fmt"

	"github.com/jsphweid/notegrid/chord"
	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/logger"
	"github.com/jsphweid/notegrid/midi"
	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/table"
	"github.com/jsphweid/notegrid/timebase"
	"github.com/jsphweid/notegrid/timeline"
	"github.com/jsphweid/notegrid/util"
	"github.com/pkg/errors"
)

type Options struct {
	Quantum float64

	// tried in order, first hit wins; only used in time mode
	Tempo []timebase.TempoSource

	// time mode tries this before TimeSignature, beat mode ignores it
	ExtractedTimeSignature timebase.TimeSignatureSource
	TimeSignature          string
}

// Convert runs the whole pipeline with cfg. The MIDI file, when given, is
// only consulted for tables in time mode.
func Convert(t model.Table, cfg model.Config) (model.Score, error) {
	opts := Options{
		Quantum:       cfg.Quantum,
		TimeSignature: cfg.TimeSignature,
	}

	var bpm *float64
	var ts *string
	mode := timebase.DetectMode(t)
	if mode == model.BeatMode {
		logger.Info("Using start_beat (onset in beats) and end_beat (duration in beats)", nil)
	} else if cfg.MidiPath != "" {
		bpm, ts = midi.ExtractTempoAndTimeSig(cfg.MidiPath)
	}
	opts.Tempo = []timebase.TempoSource{
		timebase.Optional(bpm),
		timebase.Fixed(cfg.Tempo),
		timebase.Fixed(constants.DefaultTempo),
	}
	opts.ExtractedTimeSignature = timebase.OptionalLabel(ts)

	s, err := Build(t, opts)
	if err != nil {
		return s, err
	}
	if s.Mode == model.TimeMode {
		logger.Info("Resolved time base", logger.Fields{
			"bpm":     fmt.Sprintf("%.2f", s.Tempo),
			"timesig": s.TimeSignature,
			"quantum": s.Quantum,
		})
	}
	return s, nil
}

// Build splits the table by instrument, in order of first appearance, and
// runs each part through time-base resolution, grouping and assembly on its
// own. A table without an instrument column is a single unnamed part.
func Build(t model.Table, opts Options) (model.Score, error) {
	var s model.Score
	if opts.Quantum <= 0 {
		return s, errors.Errorf("quantum must be positive, got %v", opts.Quantum)
	}
	s.Quantum = opts.Quantum
	s.Mode = timebase.DetectMode(t)

	labels := []timebase.TimeSignatureSource{
		timebase.FixedLabel(opts.TimeSignature),
		timebase.FixedLabel(constants.DefaultTimeSignature),
	}
	if s.Mode == model.TimeMode {
		if opts.ExtractedTimeSignature != nil {
			labels = append([]timebase.TimeSignatureSource{opts.ExtractedTimeSignature}, labels...)
		}
		bpm, err := timebase.ResolveTempo(opts.Tempo...)
		if err != nil {
			return s, err
		}
		s.Tempo = bpm
	}
	s.TimeSignature = timebase.ResolveTimeSignature(labels...)

	for i, p := range partition(t) {
		part, err := buildPart(p, s, i)
		if err != nil {
			return s, errors.Wrapf(err, "part %v", part.ID)
		}
		s.Parts = append(s.Parts, part)
	}
	return s, nil
}

type partTable struct {
	model.Table
	instrument    string
	hasInstrument bool
}

func partition(t model.Table) []partTable {
	if !t.Has(table.InstrumentColumn) {
		return []partTable{{Table: t}}
	}

	ids := make([]string, 0, len(t.Rows))
	byID := make(map[string][]model.Row)
	for _, row := range t.Rows {
		ids = append(ids, row.Instrument)
		byID[row.Instrument] = append(byID[row.Instrument], row)
	}

	var res []partTable
	for _, id := range util.Unique(ids) {
		res = append(res, partTable{
			Table:         model.Table{Columns: t.Columns, Rows: byID[id]},
			instrument:    id,
			hasInstrument: true,
		})
	}
	if len(res) == 0 {
		// no rows at all, keep the one implicit part
		return []partTable{{Table: t}}
	}
	return res
}

func buildPart(p partTable, s model.Score, i int) (model.Part, error) {
	part := model.Part{
		ID:            fmt.Sprintf("P%d", i+1),
		Instrument:    p.instrument,
		HasInstrument: p.hasInstrument,
	}
	if p.hasInstrument {
		part.ID = "Inst" + p.instrument
		part.Name = "Instrument " + p.instrument
	}

	events, err := timebase.Resolve(p.Rows, timebase.DetectMode(p.Table), s.Tempo, s.Quantum, p.hasInstrument)
	if err != nil {
		return part, err
	}
	tl := timeline.Assemble(chord.Group(events))
	part.Units = tl.Units
	if part.Units == nil {
		part.Units = []model.Unit{}
	}
	return part, nil
}
