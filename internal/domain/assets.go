package domain

// MeetingNotes is the shared notes surface of a room.
type MeetingNotes struct {
	Available bool   `json:"available"`
	ReadURL   string `json:"read_url,omitempty"`
	WriteURL  string `json:"write_url,omitempty"`
}

// Whiteboard is the collaborative drawing surface of a room.
type Whiteboard struct {
	Available bool     `json:"available"`
	SpaceURL  string   `json:"space_url,omitempty"`
	PDFAssets []string `json:"pdf_assets,omitempty"`
}

// SharedFolder exposes room documents. Write credentials are only present
// for moderators.
type SharedFolder struct {
	Available     bool   `json:"available"`
	ReadURL       string `json:"read_url,omitempty"`
	ReadPassword  string `json:"read_password,omitempty"`
	WriteURL      string `json:"write_url,omitempty"`
	WritePassword string `json:"write_password,omitempty"`
}

type StreamTargetID string

type StreamStatus string

const (
	StreamInactive StreamStatus = "inactive"
	StreamStarting StreamStatus = "starting"
	StreamActive   StreamStatus = "active"
	StreamError    StreamStatus = "error"
)

// StreamTarget is one recording or livestream sink of the room.
type StreamTarget struct {
	ID     StreamTargetID `json:"id"`
	Name   string         `json:"name"`
	Status StreamStatus   `json:"status"`
}
