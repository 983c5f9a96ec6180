package domain

import "encoding/json"

// EventName tags a payload pushed to real-time clients.
type EventName string

const (
	EventScoreboardUpdated EventName = "scoreboard.updated"
	EventSubmissionStored  EventName = "submission.stored"
)

// Event is a broadcast message. The set of implementations is closed:
// ScoreboardUpdate and SubmissionStored.
type Event interface {
	EventName() EventName
}

// ScoreboardUpdate carries the backend's scoreboard verbatim.
type ScoreboardUpdate struct {
	Scoreboard json.RawMessage `json:"scoreboard"`
	UpdatedAt  string          `json:"updated_at"`
}

func (ScoreboardUpdate) EventName() EventName { return EventScoreboardUpdated }

// SubmissionStored carries a newly stored submission verbatim.
type SubmissionStored struct {
	Submission json.RawMessage `json:"submission"`
}

func (SubmissionStored) EventName() EventName { return EventSubmissionStored }

// Envelope is the frame delivered to clients.
type Envelope struct {
	Event EventName `json:"event"`
	Data  Event     `json:"data"`
}

// NewEnvelope wraps e with its event name.
func NewEnvelope(e Event) Envelope {
	return Envelope{Event: e.EventName(), Data: e}
}
