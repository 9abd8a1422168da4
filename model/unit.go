package model

import "fmt"

type UnitKind uint8

const (
	RestUnit UnitKind = iota
	NoteUnit
	ChordUnit
)

func (k UnitKind) String() string {
	switch k {
	case RestUnit:
		return "rest"
	case NoteUnit:
		return "note"
	case ChordUnit:
		return "chord"
	}
	return fmt.Sprintf("UnitKind(%d)", uint8(k))
}

func (k UnitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *UnitKind) UnmarshalText(text []byte) error {
	for _, kind := range []UnitKind{RestUnit, NoteUnit, ChordUnit} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown unit kind %q", text)
}

// Unit is one element of a part's timeline. Start and Duration are in
// quantized beats. Rests carry no pitches, notes one, chords two or more
// (duplicates kept as they appeared in the source).
type Unit struct {
	Kind     UnitKind `json:"kind"`
	Start    float64  `json:"start"`
	Duration float64  `json:"duration"`
	Pitches  []int    `json:"pitches,omitempty"`
}

func (u Unit) End() float64 {
	return u.Start + u.Duration
}

func Rest(start, duration float64) Unit {
	return Unit{Kind: RestUnit, Start: start, Duration: duration}
}

func Note(start, duration float64, pitch int) Unit {
	return Unit{Kind: NoteUnit, Start: start, Duration: duration, Pitches: []int{pitch}}
}

func Chord(start, duration float64, pitches []int) Unit {
	return Unit{Kind: ChordUnit, Start: start, Duration: duration, Pitches: pitches}
}
