package model

type ConvertResponse struct {
	ID    string `json:"id"`
	Score Score  `json:"score"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
