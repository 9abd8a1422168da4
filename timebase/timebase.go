package timebase

import (
	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/quantize"
	"github.com/jsphweid/notegrid/table"
	"github.com/pkg/errors"
)

var ErrNoTempo = errors.New("time mode needs a tempo but none could be resolved")

// TempoSource is one place a tempo might come from. ok is false when the
// source has nothing to offer.
type TempoSource func() (bpm float64, ok bool)

type TimeSignatureSource func() (label string, ok bool)

func Fixed(bpm float64) TempoSource {
	return func() (float64, bool) {
		return bpm, bpm > 0
	}
}

func Optional(bpm *float64) TempoSource {
	return func() (float64, bool) {
		if bpm == nil || *bpm <= 0 {
			return 0, false
		}
		return *bpm, true
	}
}

func FixedLabel(label string) TimeSignatureSource {
	return func() (string, bool) {
		return label, label != ""
	}
}

func OptionalLabel(label *string) TimeSignatureSource {
	return func() (string, bool) {
		if label == nil || *label == "" {
			return "", false
		}
		return *label, true
	}
}

// ResolveTempo returns the first tempo offered by sources, tried in order.
func ResolveTempo(sources ...TempoSource) (float64, error) {
	for _, source := range sources {
		if bpm, ok := source(); ok {
			return bpm, nil
		}
	}
	return 0, errors.WithStack(ErrNoTempo)
}

// ResolveTimeSignature returns the first label offered by sources, or ""
// when none has one.
func ResolveTimeSignature(sources ...TimeSignatureSource) string {
	for _, source := range sources {
		if label, ok := source(); ok {
			return label
		}
	}
	return ""
}

func DetectMode(t model.Table) model.Mode {
	if t.Has(table.StartBeatColumn) && t.Has(table.EndBeatColumn) {
		return model.BeatMode
	}
	return model.TimeMode
}

// Resolve turns rows into beat-domain events. Beat mode passes start_beat and
// end_beat (a duration) through untouched. Time mode converts milliseconds
// with bpm, then snaps onset and duration to the quantum grid, keeping every
// duration at least one quantum long. bpm is ignored in beat mode.
func Resolve(rows []model.Row, mode model.Mode, bpm, quantum float64, hasInstrument bool) ([]model.Event, error) {
	if mode == model.TimeMode && bpm <= 0 {
		return nil, errors.WithStack(ErrNoTempo)
	}

	events := make([]model.Event, 0, len(rows))
	beatsPerSecond := bpm / 60.0
	for _, row := range rows {
		e := model.Event{
			Pitch:         row.Note,
			Instrument:    row.Instrument,
			HasInstrument: hasInstrument,
		}
		if mode == model.BeatMode {
			e.Onset = row.StartBeat
			e.Duration = row.EndBeat
		} else {
			start := row.StartTime / 1000.0
			end := row.EndTime / 1000.0
			e.Onset = quantize.Snap(start*beatsPerSecond, quantum)
			e.Duration = quantize.Floor((end-start)*beatsPerSecond, quantum)
		}
		events = append(events, e)
	}
	return events, nil
}
