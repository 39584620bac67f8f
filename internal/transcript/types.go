package transcript

// Transcript is the successful extraction result, in the shape
// downstream JSON consumers expect.
type Transcript struct {
	VideoID      string    `json:"video_id"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	Channel      string    `json:"channel,omitempty"`
	PublishedAt  string    `json:"published_at,omitempty"`
	Duration     int64     `json:"duration,omitempty"`
	Language     string    `json:"language"`
	IsGenerated  bool      `json:"is_generated"`
	FullText     string    `json:"full_text"`
	Segments     []Segment `json:"segments"`
	SegmentCount int       `json:"segment_count"`
	Success      bool      `json:"success"`
}

// Segment is one timed transcript snippet. Start and Duration are in
// seconds.
type Segment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// ExtractionError is the failure shape printed to the error stream, so
// consumers always get parseable JSON.
type ExtractionError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	VideoID string `json:"video_id,omitempty"`
	Success bool   `json:"success"`
}
