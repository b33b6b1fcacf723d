package models

import "time"

type StreamStatus string

const (
	StreamActive   StreamStatus = "active"
	StreamInactive StreamStatus = "inactive"
	StreamEnded    StreamStatus = "ended"
)

func (s StreamStatus) Valid() bool {
	switch s {
	case StreamActive, StreamInactive, StreamEnded:
		return true
	}
	return false
}

// Stream is a live stream provisioned on the streaming platform and tracked locally.
type Stream struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	StreamiID   string       `json:"streamiId"`
	HLSURL      string       `json:"hlsUrl"`
	Status      StreamStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	CreatedBy   UserRef      `json:"createdBy"`
	Viewers     int          `json:"viewers"`
	Thumbnail   string       `json:"thumbnail"`
}

// UserRef is the populated owner of a stream. Only ID is stored on the stream row.
type UserRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// StreamStats summarises the stream table for the admin dashboard.
type StreamStats struct {
	Total        int                  `json:"total"`
	ByStatus     map[StreamStatus]int `json:"byStatus"`
	TotalViewers int                  `json:"totalViewers"`
}
