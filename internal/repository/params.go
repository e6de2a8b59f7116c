package repository

type PutPlaybackParams struct {
	ProjectID string
	VideoURL  string
	VideoID   string
	Title     string
	AddedByID string
}

// UpdatePlaybackFlagsParams is a partial update: nil fields are left
// unchanged.
type UpdatePlaybackFlagsParams struct {
	ProjectID   string
	IsPlaying   *bool
	CurrentTime *float64
	IsMinimized *bool
}
