package entities

// Chunk is a contiguous, word-budgeted run of transcript segments sent to the model as one unit
type Chunk struct {
	Text      string              `json:"text"`
	Segments  []TranscriptSegment `json:"segments"`
	StartTime float64             `json:"start_time"`
	EndTime   float64             `json:"end_time"`
	Index     int                 `json:"chunk_index"`
}

// ChunkPosition locates a chunk within the whole split
type ChunkPosition struct {
	Index int
	Total int
}
