package model

type ScoreRecord struct {
	ID            string
	Source        string
	Parts         uint
	Units         uint
	Mode          string
	Tempo         float64
	TimeSignature string
	CreatedAt     string
}
