package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/notegrid/model"
)

// GroupKey identifies events that sound together. Only events with exactly
// equal onset and duration share a key; overlapping events with different
// spans stay apart.
type GroupKey struct {
	Onset    float64
	Duration float64
}

func (k GroupKey) Less(other GroupKey) bool {
	if k.Onset != other.Onset {
		return k.Onset < other.Onset
	}
	return k.Duration < other.Duration
}

// Pending is a grouped note or chord waiting for the timeline assembler.
type Pending struct {
	Key     GroupKey
	Pitches []int
}

func (p Pending) Unit() model.Unit {
	if len(p.Pitches) == 1 {
		return model.Note(p.Key.Onset, p.Key.Duration, p.Pitches[0])
	}
	return model.Chord(p.Key.Onset, p.Key.Duration, p.Pitches)
}

// CreateChordKey renders pitches as a readable key such as "60-64-67".
func CreateChordKey(pitches []int) string {
	var res string
	for i, pitch := range pitches {
		res += fmt.Sprintf("%v", pitch)
		if i < len(pitches)-1 {
			res += "-"
		}
	}
	return res
}

// SortEvents orders events by onset, then pitch. The sort is stable so
// exact duplicates keep their table order.
func SortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Onset != events[j].Onset {
			return events[i].Onset < events[j].Onset
		}
		return events[i].Pitch < events[j].Pitch
	})
}

// Group merges events sharing a GroupKey and returns the groups ordered by
// key. Pitches inside a group keep the (onset, pitch) sort order and
// duplicates are retained. events is not modified.
func Group(events []model.Event) []Pending {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	SortEvents(sorted)

	grouped := make(map[GroupKey][]int)
	for _, e := range sorted {
		key := GroupKey{Onset: e.Onset, Duration: e.Duration}
		grouped[key] = append(grouped[key], e.Pitch)
	}

	keys := make([]GroupKey, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})

	res := make([]Pending, 0, len(keys))
	for _, k := range keys {
		res = append(res, Pending{Key: k, Pitches: grouped[k]})
	}
	return res
}
