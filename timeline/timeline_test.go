package timeline

import (
	"testing"

	"github.com/jsphweid/notegrid/chord"
	"github.com/jsphweid/notegrid/model"
	"github.com/stretchr/testify/assert"
)

func pending(onset, duration float64, pitches ...int) chord.Pending {
	return chord.Pending{Key: chord.GroupKey{Onset: onset, Duration: duration}, Pitches: pitches}
}

func TestChordAtZeroHasNoLeadingRest(t *testing.T) {
	tl := Assemble([]chord.Pending{pending(0, 1, 60, 64)})
	assert.Equal(t, []model.Unit{model.Chord(0, 1, []int{60, 64})}, tl.Units)
	assert.Equal(t, 1.0, tl.End)
}

func TestLeadingGapBecomesRest(t *testing.T) {
	tl := Assemble([]chord.Pending{pending(2, 1, 67)})
	assert.Equal(t, []model.Unit{model.Rest(0, 2), model.Note(2, 1, 67)}, tl.Units)
}

func TestGapsBetweenUnitsAreFilled(t *testing.T) {
	tl := Assemble([]chord.Pending{
		pending(0, 1, 60),
		pending(1, 0.5, 62),
		pending(2, 1, 64, 67),
		pending(4.25, 0.25, 72),
	})

	assert.Equal(t, []model.Unit{
		model.Note(0, 1, 60),
		model.Note(1, 0.5, 62),
		model.Rest(1.5, 0.5),
		model.Chord(2, 1, []int{64, 67}),
		model.Rest(3, 1.25),
		model.Note(4.25, 0.25, 72),
	}, tl.Units)
	assert.Equal(t, 4.5, tl.End)
}

func TestContiguousAndCoveringWithoutOverlap(t *testing.T) {
	tl := Assemble([]chord.Pending{
		pending(0.5, 0.25, 60),
		pending(1, 1, 62),
		pending(3, 0.5, 64),
	})

	assert := assert.New(t)
	assert.Equal(0.0, tl.Units[0].Start)
	total := 0.0
	for i, u := range tl.Units {
		total += u.Duration
		if i > 0 {
			assert.Equal(tl.Units[i-1].End(), u.Start)
		}
	}
	assert.Equal(tl.End, total)
}

func TestTinyGapWithinToleranceIsIgnored(t *testing.T) {
	tl := Assemble([]chord.Pending{pending(0, 1, 60), pending(1+1e-9, 1, 62)})
	assert.Len(t, tl.Units, 2)
	assert.Equal(t, model.NoteUnit, tl.Units[1].Kind)
}

func TestOverlapIsLeftAsWritten(t *testing.T) {
	tl := Assemble([]chord.Pending{pending(0, 2, 60), pending(1, 0.5, 64), pending(3, 1, 67)})

	assert.Equal(t, []model.Unit{
		model.Note(0, 2, 60),
		model.Note(1, 0.5, 64),
		// cursor stayed at 2 after the shorter overlapping note
		model.Rest(2, 1),
		model.Note(3, 1, 67),
	}, tl.Units)
	assert.Equal(t, 4.0, tl.End)
}

func TestEmpty(t *testing.T) {
	tl := Assemble(nil)
	assert.Empty(t, tl.Units)
	assert.Equal(t, 0.0, tl.End)
}
