package model

// Event is one note occurrence from the input table, already in the beat domain.
type Event struct {
	Pitch    int
	Onset    float64
	Duration float64

	// NOTE: empty Instrument is a valid id when HasInstrument is true
	Instrument    string
	HasInstrument bool
}

// Row is a raw table row before time-base resolution. Fields not present
// in the source table are left at zero; Table.Columns says which exist.
type Row struct {
	Note       int
	StartTime  float64
	EndTime    float64
	StartBeat  float64
	EndBeat    float64
	Instrument string
}

type Table struct {
	Columns map[string]bool
	Rows    []Row
}

func (t Table) Has(column string) bool {
	return t.Columns[column]
}
