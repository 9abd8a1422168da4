package musicxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/util"
	"github.com/pkg/errors"
)

const (
	doctype   = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">`
	tolerance = 1e-9
)

var (
	steps  = [12]string{"C", "C", "D", "D", "E", "F", "F", "G", "G", "A", "A", "B"}
	alters = [12]int{0, 1, 0, 1, 0, 0, 1, 0, 1, 0, 1, 0}
)

var noteTypes = []struct {
	beats float64
	name  string
}{
	{4, "whole"},
	{2, "half"},
	{1, "quarter"},
	{0.5, "eighth"},
	{0.25, "16th"},
	{0.125, "32nd"},
	{0.0625, "64th"},
}

func toDivisions(beats float64) int {
	return int(math.Round(beats * constants.Divisions))
}

// spanDivisions measures from..to on the rounded absolute grid, so the
// pieces of a measure always add up to the measure length.
func spanDivisions(from, to float64) int {
	return toDivisions(to) - toDivisions(from)
}

// NotePitch spells a MIDI pitch with sharps.
func NotePitch(midi int) Pitch {
	pc := ((midi % 12) + 12) % 12
	octave := int(math.Floor(float64(midi)/12)) - 1
	return Pitch{Step: steps[pc], Alter: alters[pc], Octave: octave}
}

// NoteType names a duration and its dot count. ok is false for durations
// that have no plain or single-dotted name, e.g. 0.75 + 1.
func NoteType(beats float64) (name string, dots int, ok bool) {
	for _, t := range noteTypes {
		if math.Abs(beats-t.beats) < tolerance {
			return t.name, 0, true
		}
		if math.Abs(beats-1.5*t.beats) < tolerance {
			return t.name, 1, true
		}
	}
	return "", 0, false
}

// SplitAtBarlines cuts units into measures of measureLen beats. A unit
// crossing a barline becomes one piece per measure it touches; pieces are
// not tied. Measures that nothing reaches are left nil.
func SplitAtBarlines(units []model.Unit, measureLen float64) [][]model.Unit {
	var measures [][]model.Unit
	for _, u := range units {
		start, remain := u.Start, u.Duration
		for remain > tolerance {
			m := util.Max(0, int(math.Floor(start/measureLen+tolerance)))
			seg := util.Min(remain, float64(m+1)*measureLen-start)
			for len(measures) <= m {
				measures = append(measures, nil)
			}
			piece := u
			piece.Start = start
			piece.Duration = seg
			measures[m] = append(measures[m], piece)
			start += seg
			remain -= seg
		}
	}
	return measures
}

func unitNotes(u model.Unit) []Note {
	base := Note{Duration: spanDivisions(u.Start, u.End()), Voice: "1"}
	if name, dots, ok := NoteType(u.Duration); ok {
		base.Type = name
		base.Dots = make([]Empty, dots)
	}

	if u.Kind == model.RestUnit {
		base.Rest = &Empty{}
		return []Note{base}
	}

	var notes []Note
	for i, p := range u.Pitches {
		n := base
		pitch := NotePitch(p)
		n.Pitch = &pitch
		if i > 0 {
			n.Chord = &Empty{}
		}
		notes = append(notes, n)
	}
	return notes
}

func firstMeasureHeader(s model.Score) []any {
	num, denom := model.ParseTimeSignature(s.TimeSignature)
	res := []any{Attributes{
		Divisions: constants.Divisions,
		Time:      Time{Beats: int(num), BeatType: int(denom)},
		Clef:      Clef{Sign: "G", Line: 2},
	}}
	if s.Mode == model.TimeMode && s.Tempo > 0 {
		res = append(res, Direction{
			Placement: "above",
			DirectionType: DirectionType{Metronome: Metronome{
				BeatUnit:  "quarter",
				PerMinute: strconv.FormatFloat(s.Tempo, 'f', -1, 64),
			}},
			Sound: &Sound{Tempo: s.Tempo},
		})
	}
	return res
}

func buildMeasures(s model.Score, part model.Part) []Measure {
	measureLen := model.MeasureLength(s.TimeSignature)
	split := SplitAtBarlines(part.Units, measureLen)
	if len(split) == 0 {
		split = [][]model.Unit{nil}
	}

	res := make([]Measure, 0, len(split))
	for i, units := range split {
		m := Measure{Number: i + 1}
		if i == 0 {
			m.Music = firstMeasureHeader(s)
		}
		if units == nil && i < len(split)-1 {
			units = []model.Unit{model.Rest(float64(i)*measureLen, measureLen)}
		}

		pos := float64(i) * measureLen
		for _, u := range units {
			switch {
			case u.Start < pos-tolerance:
				m.Music = append(m.Music, Backup{Duration: spanDivisions(u.Start, pos)})
			case u.Start > pos+tolerance:
				m.Music = append(m.Music, Forward{Duration: spanDivisions(pos, u.Start)})
			}
			for _, n := range unitNotes(u) {
				m.Music = append(m.Music, n)
			}
			pos = u.End()
		}
		res = append(res, m)
	}
	return res
}

// Build lays out the score as a MusicXML document: one piano part per score
// part, measures cut from the time signature, a metronome mark in time mode.
func Build(s model.Score) ScorePartwise {
	doc := ScorePartwise{
		Version:        "3.1",
		Identification: Identification{Encoding: Encoding{Software: "notegrid"}},
	}

	ids := partIDs(s.Parts)
	for i, part := range s.Parts {
		name := part.Name
		if name == "" {
			name = "Piano"
		}
		doc.PartList.ScoreParts = append(doc.PartList.ScoreParts, ScorePart{
			ID:         ids[i],
			Name:       name,
			Instrument: ScoreInstrument{ID: ids[i] + "-I1", Name: "Piano"},
		})
		doc.Parts = append(doc.Parts, Part{ID: ids[i], Measures: buildMeasures(s, part)})
	}
	return doc
}

// partIDs turns part ids into unique XML ids.
func partIDs(parts []model.Part) []string {
	seen := make(map[string]bool)
	res := make([]string, 0, len(parts))
	for i, p := range parts {
		id := sanitizeID(p.ID)
		if id == "" || seen[id] {
			id = fmt.Sprintf("P%d", i+1)
		}
		for seen[id] {
			id += "_"
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}

func sanitizeID(id string) string {
	b := []byte(id)
	for i, c := range b {
		isLetter := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
		isOther := c >= '0' && c <= '9' || c == '-' || c == '.'
		if !isLetter && !(isOther && i > 0) {
			b[i] = '_'
		}
	}
	return string(b)
}

func Write(w io.Writer, s model.Score) error {
	if _, err := io.WriteString(w, xml.Header+doctype+"\n"); err != nil {
		return errors.WithStack(err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(Build(s)); err != nil {
		return errors.Wrap(err, "could not encode musicxml")
	}
	_, err := io.WriteString(w, "\n")
	return errors.WithStack(err)
}

func WriteFile(path string, s model.Score) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %v", path)
	}
	defer f.Close()

	if err := Write(f, s); err != nil {
		return err
	}
	return errors.Wrapf(f.Close(), "could not close %v", path)
}
