package musicxml

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotePitch(t *testing.T) {
	assert.Equal(t, Pitch{Step: "C", Octave: 4}, NotePitch(60))
	assert.Equal(t, Pitch{Step: "C", Alter: 1, Octave: 4}, NotePitch(61))
	assert.Equal(t, Pitch{Step: "A", Octave: 4}, NotePitch(69))
	assert.Equal(t, Pitch{Step: "B", Octave: -1}, NotePitch(11))
}

func TestNoteType(t *testing.T) {
	cases := []struct {
		beats float64
		name  string
		dots  int
		ok    bool
	}{
		{4, "whole", 0, true},
		{3, "half", 1, true},
		{1, "quarter", 0, true},
		{0.75, "eighth", 1, true},
		{0.25, "16th", 0, true},
		{1.25, "", 0, false},
		{5, "", 0, false},
	}
	for _, c := range cases {
		name, dots, ok := NoteType(c.beats)
		assert.Equal(t, c.name, name, "beats %v", c.beats)
		assert.Equal(t, c.dots, dots, "beats %v", c.beats)
		assert.Equal(t, c.ok, ok, "beats %v", c.beats)
	}
}

func TestSplitAtBarlines(t *testing.T) {
	units := []model.Unit{
		model.Rest(0, 3),
		model.Note(3, 2, 60),
		model.Chord(5, 7, []int{60, 64}),
	}
	measures := SplitAtBarlines(units, 4)
	require.Len(t, measures, 3)

	assert := assert.New(t)
	assert.Equal([]model.Unit{model.Rest(0, 3), model.Note(3, 1, 60)}, measures[0])
	assert.Equal([]model.Unit{model.Note(4, 1, 60), model.Chord(5, 3, []int{60, 64})}, measures[1])
	assert.Equal([]model.Unit{model.Chord(8, 4, []int{60, 64})}, measures[2])

	// every measure is full and pieces add back up to the source
	for i, m := range measures {
		total := 0.0
		for _, u := range m {
			total += u.Duration
		}
		assert.Equal(4.0, total, "measure %d", i)
	}
}

func testScore() model.Score {
	return model.Score{
		Mode:          model.TimeMode,
		Tempo:         96,
		TimeSignature: "3/4",
		Quantum:       0.25,
		Parts: []model.Part{
			{ID: "InstA", Name: "Instrument A", Units: []model.Unit{
				model.Chord(0, 1, []int{60, 64}),
				model.Rest(1, 1),
				model.Note(2, 2, 67),
			}},
			{ID: "InstA", Name: "Instrument A again"},
		},
	}
}

func TestBuild(t *testing.T) {
	doc := Build(testScore())

	assert := assert.New(t)
	require.Len(t, doc.Parts, 2)
	assert.Equal("InstA", doc.Parts[0].ID)
	// duplicate ids get renumbered
	assert.Equal("P2", doc.Parts[1].ID)
	assert.Equal("Instrument A", doc.PartList.ScoreParts[0].Name)

	measures := doc.Parts[0].Measures
	require.Len(t, measures, 2)

	first := measures[0].Music
	require.IsType(t, Attributes{}, first[0])
	assert.Equal(Time{Beats: 3, BeatType: 4}, first[0].(Attributes).Time)
	require.IsType(t, Direction{}, first[1])
	assert.Equal("96", first[1].(Direction).DirectionType.Metronome.PerMinute)

	notes := first[2:]
	require.Len(t, notes, 4)
	assert.Nil(notes[0].(Note).Chord)
	assert.NotNil(notes[1].(Note).Chord)
	assert.Equal("quarter", notes[1].(Note).Type)
	assert.NotNil(notes[2].(Note).Rest)
	// the half note is cut at the barline
	assert.Equal(480, notes[3].(Note).Duration)
	assert.Equal(480, measures[1].Music[0].(Note).Duration)

	// an empty part still gets one measure
	assert.Len(doc.Parts[1].Measures, 1)
}

func TestBuildBeatModeHasNoMetronome(t *testing.T) {
	s := testScore()
	s.Mode = model.BeatMode
	s.Tempo = 0
	doc := Build(s)
	for _, el := range doc.Parts[0].Measures[0].Music {
		assert.NotEqual(t, "direction", elementName(el))
	}
}

func TestOverlapUsesBackupAndForward(t *testing.T) {
	s := model.Score{TimeSignature: "4/4", Mode: model.BeatMode, Parts: []model.Part{{ID: "P1", Units: []model.Unit{
		model.Note(0, 2, 60),
		model.Note(1, 0.5, 64),
		model.Rest(2, 1),
	}}}}
	music := Build(s).Parts[0].Measures[0].Music

	var names []string
	for _, el := range music {
		names = append(names, elementName(el))
	}
	assert.Equal(t, []string{"attributes", "note", "backup", "note", "forward", "note"}, names)
	assert.Equal(t, 480, music[2].(Backup).Duration)
	assert.Equal(t, 240, music[4].(Forward).Duration)
}

func elementName(el any) string {
	switch el.(type) {
	case Attributes:
		return "attributes"
	case Direction:
		return "direction"
	case Note:
		return "note"
	case Backup:
		return "backup"
	case Forward:
		return "forward"
	}
	return ""
}

func TestWriteProducesParsableDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testScore()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, "<!DOCTYPE score-partwise")
	assert.Contains(t, out, "<step>E</step>")
	assert.Contains(t, out, `<sound tempo="96"></sound>`)
	assert.NotContains(t, out, "<tie")

	var parsed struct {
		Parts []struct {
			Measures []struct {
				Notes []struct {
					Duration int `xml:"duration"`
				} `xml:"note"`
			} `xml:"measure"`
		} `xml:"part"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed.Parts, 2)
	assert.Len(t, parsed.Parts[0].Measures[0].Notes, 4)
}

const tiedDoc = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">
<score-partwise version="3.1">
  <part id="P1">
    <measure number="1">
      <note>
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>1920</duration>
        <tie type="start"/>
        <notations><tied type="start"/><slur type="start" number="1"/><fermata/></notations>
      </note>
    </measure>
    <measure number="2">
      <note>
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>480</duration>
        <tie type="stop"/>
        <notations><tied type="stop"/></notations>
      </note>
    </measure>
  </part>
</score-partwise>
`

func TestStripLiaisons(t *testing.T) {
	var out bytes.Buffer
	removed, err := StripLiaisons(strings.NewReader(tiedDoc), &out)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(5, removed)
	s := out.String()
	assert.NotContains(s, "<tie")
	assert.NotContains(s, "<tied")
	assert.NotContains(s, "<slur")
	assert.Contains(s, "<fermata>")
	assert.Contains(s, "<!DOCTYPE score-partwise")
}

func TestStripLiaisonsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tied.musicxml")
	require.NoError(t, os.WriteFile(path, []byte(tiedDoc), 0666))

	removed, err := StripLiaisonsFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	again, err := StripLiaisonsFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, again)
}

func TestStripLiaisonsRejectsBrokenXML(t *testing.T) {
	_, err := StripLiaisons(strings.NewReader("<score-partwise><part>"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestMeasureDivisionsAddUp(t *testing.T) {
	var units []model.Unit
	for k := 0; k < 7; k++ {
		units = append(units, model.Note(float64(k)/7, 1.0/7, 60+k))
	}
	units = append(units, model.Note(1, 3, 72), model.Note(4, 4.0/3, 74))
	s := model.Score{TimeSignature: "4/4", Mode: model.BeatMode, Parts: []model.Part{{ID: "P1", Units: units}}}

	measures := Build(s).Parts[0].Measures
	require.Len(t, measures, 2)

	var durations, sevenths []int
	for _, el := range measures[0].Music {
		if n, ok := el.(Note); ok {
			durations = append(durations, n.Duration)
			if n.Duration < 100 {
				sevenths = append(sevenths, n.Duration)
			}
		}
	}
	assert.Equal(t, 4*480, util.Sum(durations))
	require.Len(t, sevenths, 7)
	assert.Equal(t, 480, util.Sum(sevenths))
}

func TestSplitAtBarlinesClampsNegativeStart(t *testing.T) {
	assert.NotPanics(t, func() {
		split := SplitAtBarlines([]model.Unit{model.Note(-1, 1, 60)}, 4)
		require.Len(t, split, 1)
	})
}
