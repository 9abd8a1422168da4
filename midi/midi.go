package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jsphweid/notegrid/logger"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF
	var err error

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("could not parse midi file: %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)

	if err != nil {
		errText := fmt.Sprintf("Error reading midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))

	if err != nil {
		errText := fmt.Sprintf("Error parsing midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}

	return res, nil
}

// ExtractTempoAndTimeSig returns the first tempo and the first time signature
// found in the file, scanning tracks in order. Either may be nil. Nothing here
// is fatal: an unreadable file just yields nils.
func ExtractTempoAndTimeSig(path string) (*float64, *string) {
	s, err := ReadMidiFile(path)
	if err != nil {
		logger.Info("No tempo from midi file, using defaults", logger.Fields{"path": path, "reason": err.Error()})
		return nil, nil
	}
	if s == nil {
		return nil, nil
	}

	bpm, ts := FindTempoAndTimeSig(s)
	if bpm == nil || ts == nil {
		logger.Info("Midi file is missing tempo or time signature", logger.Fields{
			"path":     path,
			"tempo":    bpm != nil,
			"time_sig": ts != nil,
		})
	}
	return bpm, ts
}

func FindTempoAndTimeSig(s *smf.SMF) (*float64, *string) {
	var bpm *float64
	var ts *string
	if s == nil {
		return nil, nil
	}

TrackLoop:
	for _, track := range s.Tracks {
		for _, evt := range track {
			var tempo float64
			var num, denom, cpt, dsqpq uint8
			switch {
			case bpm == nil && evt.Message.GetMetaTempo(&tempo):
				bpm = &tempo
			case ts == nil && evt.Message.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq):
				label := fmt.Sprintf("%d/%d", num, denom)
				ts = &label
			}
			if bpm != nil && ts != nil {
				break TrackLoop
			}
		}
	}
	return bpm, ts
}
