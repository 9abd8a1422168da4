package musicxml

import "encoding/xml"

// ScorePartwise is the root of a partwise MusicXML 3.1 document.
type ScorePartwise struct {
	XMLName        xml.Name       `xml:"score-partwise"`
	Version        string         `xml:"version,attr"`
	Identification Identification `xml:"identification"`
	PartList       PartList       `xml:"part-list"`
	Parts          []Part         `xml:"part"`
}

type Identification struct {
	Encoding Encoding `xml:"encoding"`
}

type Encoding struct {
	Software string `xml:"software"`
}

type PartList struct {
	ScoreParts []ScorePart `xml:"score-part"`
}

type ScorePart struct {
	ID         string          `xml:"id,attr"`
	Name       string          `xml:"part-name"`
	Instrument ScoreInstrument `xml:"score-instrument"`
}

type ScoreInstrument struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"instrument-name"`
}

type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

// Measure keeps its children in document order: attributes, directions,
// notes and the backup/forward moves between them.
type Measure struct {
	Number int   `xml:"number,attr"`
	Music  []any `xml:",any"`
}

type Attributes struct {
	XMLName   xml.Name `xml:"attributes"`
	Divisions int      `xml:"divisions"`
	Key       Key      `xml:"key"`
	Time      Time     `xml:"time"`
	Clef      Clef     `xml:"clef"`
}

type Key struct {
	Fifths int `xml:"fifths"`
}

type Time struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type Clef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type Direction struct {
	XMLName       xml.Name      `xml:"direction"`
	Placement     string        `xml:"placement,attr,omitempty"`
	DirectionType DirectionType `xml:"direction-type"`
	Sound         *Sound        `xml:"sound,omitempty"`
}

type DirectionType struct {
	Metronome Metronome `xml:"metronome"`
}

type Metronome struct {
	BeatUnit  string `xml:"beat-unit"`
	PerMinute string `xml:"per-minute"`
}

type Sound struct {
	Tempo float64 `xml:"tempo,attr"`
}

type Empty struct{}

type Note struct {
	XMLName  xml.Name `xml:"note"`
	Chord    *Empty   `xml:"chord"`
	Pitch    *Pitch   `xml:"pitch"`
	Rest     *Empty   `xml:"rest"`
	Duration int      `xml:"duration"`
	Voice    string   `xml:"voice,omitempty"`
	Type     string   `xml:"type,omitempty"`
	Dots     []Empty  `xml:"dot"`
}

type Pitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type Backup struct {
	XMLName  xml.Name `xml:"backup"`
	Duration int      `xml:"duration"`
}

type Forward struct {
	XMLName  xml.Name `xml:"forward"`
	Duration int      `xml:"duration"`
}
