package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Mode uint8

const (
	TimeMode Mode = iota
	BeatMode
)

func (m Mode) String() string {
	if m == BeatMode {
		return "beat"
	}
	return "time"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "time":
		*m = TimeMode
	case "beat":
		*m = BeatMode
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}

type Part struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Instrument    string `json:"instrument,omitempty"`
	HasInstrument bool   `json:"-"`
	Units         []Unit `json:"units"`
}

// Score is the result of one conversion run. Tempo is zero in beat mode.
type Score struct {
	Parts         []Part  `json:"parts"`
	Mode          Mode    `json:"mode"`
	Tempo         float64 `json:"tempo,omitempty"`
	TimeSignature string  `json:"time_signature"`
	Quantum       float64 `json:"quantum"`
}

// Config is fixed for a whole conversion.
type Config struct {
	Tempo         float64
	TimeSignature string
	Quantum       float64
	MaxRows       int
	MidiPath      string
}

// ParseTimeSignature splits a label such as "6/8". Malformed labels and
// non power-of-two denominators fall back to 4/4.
func ParseTimeSignature(label string) (num, denom uint8) {
	parts := strings.SplitN(label, "/", 2)
	if len(parts) != 2 {
		return 4, 4
	}
	n, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || n <= 0 || n > 255 || d <= 0 || d > 64 || d&(d-1) != 0 {
		return 4, 4
	}
	return uint8(n), uint8(d)
}

// MeasureLength is the length of one measure in beats (quarter notes).
func MeasureLength(label string) float64 {
	num, denom := ParseTimeSignature(label)
	return float64(num) * 4 / float64(denom)
}
