// Package streaming defines the wire protocol for the live timeline feed:
// JSON envelopes carrying session and marker updates to a viewer.
package streaming

import "encoding/json"

// Message type constants matching the streaming protocol.
const (
	TypeStartSession = "start_session"
	TypeEndSession   = "end_session"
	TypeAddMarker    = "add_marker"
	TypeUpdateMarker = "update_marker"
	TypeDeleteMarker = "delete_marker"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// SessionPayload carries tagging session metadata.
type SessionPayload struct {
	ProjectName string  `json:"projectName"`
	VideoPath   string  `json:"videoPath"`
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"totalFrames"`
}

// MarkerPayload carries one marker update.
type MarkerPayload struct {
	ID         uint           `json:"id"`
	StartFrame int            `json:"startFrame"`
	EndFrame   int            `json:"endFrame"`
	EventName  string         `json:"eventName"`
	Note       string         `json:"note"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// DeleteMarkerPayload identifies a marker to remove from the timeline.
type DeleteMarkerPayload struct {
	ID uint `json:"id"`
}
