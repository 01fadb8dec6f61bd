package domain

import "time"

// UsageLog is one accounting record per completed effect job.
type UsageLog struct {
	UserID          string
	JobID           string
	Effect          string
	PixelsProcessed int64
	OutputBytes     int64
	ComputeTimeMS   int64
	CreatedAt       time.Time
}
