package entity

// QueryResult is the combined payload of a resolved place query.
type QueryResult struct {
	NarrativeText    string  `json:"llm_text"`
	Places           []Place `json:"places"`
	RequestID        string  `json:"request_id"`
	Cached           bool    `json:"cached"`
	ProcessingTimeMs float64 `json:"processing_time"`
}
