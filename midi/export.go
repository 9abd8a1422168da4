package midi

import (
	"math"
	"sort"

	"github.com/jsphweid/notegrid/constants"
	"github.com/jsphweid/notegrid/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultVelocity = 100

type noteEvent struct {
	tick  int64
	isOff bool
	key   uint8
}

func toTicks(beats float64) int64 {
	return int64(math.Round(beats * constants.TicksPerBeat))
}

// Build renders the score as a format 1 SMF: a conductor track holding
// tempo and meter, then one track per part. Rests produce no events.
func Build(s model.Score) (*smf.SMF, error) {
	res := smf.New()
	res.TimeFormat = smf.MetricTicks(constants.TicksPerBeat)

	var conductor smf.Track
	num, denom := model.ParseTimeSignature(s.TimeSignature)
	conductor.Add(0, smf.MetaMeter(num, denom))
	bpm := s.Tempo
	if bpm <= 0 {
		bpm = constants.DefaultTempo
	}
	conductor.Add(0, smf.MetaTempo(bpm))
	conductor.Close(0)
	if err := res.Add(conductor); err != nil {
		return nil, errors.Wrap(err, "could not add conductor track")
	}

	for i, part := range s.Parts {
		track, err := buildTrack(part, uint8(i%16))
		if err != nil {
			return nil, errors.Wrapf(err, "part %v", part.ID)
		}
		if err := res.Add(track); err != nil {
			return nil, errors.Wrapf(err, "could not add track for part %v", part.ID)
		}
	}
	return res, nil
}

func buildTrack(part model.Part, channel uint8) (smf.Track, error) {
	var track smf.Track
	name := part.Name
	if name == "" {
		name = part.ID
	}
	track.Add(0, smf.MetaTrackSequenceName(name))

	var events []noteEvent
	for _, u := range part.Units {
		if u.Kind == model.RestUnit {
			continue
		}
		start, end := toTicks(u.Start), toTicks(u.End())
		if start < 0 {
			return track, errors.Errorf("unit starts before zero: %v", u.Start)
		}
		for _, p := range u.Pitches {
			if p < 0 || p > 127 {
				return track, errors.Errorf("pitch out of midi range: %d", p)
			}
			events = append(events, noteEvent{tick: start, key: uint8(p)})
			events = append(events, noteEvent{tick: end, isOff: true, key: uint8(p)})
		}
	}

	// note offs go first so repeated keys re-trigger cleanly
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isOff && !events[j].isOff
	})

	var last int64
	for _, evt := range events {
		delta := uint32(evt.tick - last)
		last = evt.tick
		if evt.isOff {
			track.Add(delta, gomidi.NoteOff(channel, evt.key))
		} else {
			track.Add(delta, gomidi.NoteOn(channel, evt.key, defaultVelocity))
		}
	}
	track.Close(0)
	return track, nil
}

func WriteScore(s model.Score, path string) error {
	res, err := Build(s)
	if err != nil {
		return err
	}
	return errors.Wrapf(res.WriteFile(path), "could not write %v", path)
}
