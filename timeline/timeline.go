package timeline

import (
	"github.com/jsphweid/notegrid/chord"
	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/model"
	"github.com/jsphweid/notegrid/util"
)

type Timeline struct {
	Units []model.Unit

	// furthest point reached by any unit
	End float64
}

// Assemble walks pending groups in order and fills every gap before a group
// with a rest, so the timeline starts at 0 and has no holes. A group that
// starts before the previous one ends is emitted as is; nothing gets
// truncated. No rest is added after the last group.
func Assemble(pending []chord.Pending) Timeline {
	var tl Timeline
	cursor := 0.0
	for _, p := range pending {
		s, d := p.Key.Onset, p.Key.Duration
		if s > cursor+constants.GapTolerance {
			tl.Units = append(tl.Units, model.Rest(cursor, s-cursor))
			cursor = s
		}
		tl.Units = append(tl.Units, p.Unit())
		cursor = util.Max(cursor, s+d)
	}
	tl.End = cursor
	return tl
}
