package ws

import (
	"encoding/json"
	"time"

	"govtjobs/internal/domain/stats"

	"github.com/google/uuid"
)

const (
	EventJobsUpdated = "jobs_updated"
	EventStats       = "stats"
)

type JobsUpdatedEvent struct {
	Type      string     `json:"type"`
	Source    string     `json:"source"`
	JobID     *uuid.UUID `json:"jobId,omitempty"`
	Timestamp string     `json:"timestamp"`
}

type StatsEvent struct {
	Type      string         `json:"type"`
	Data      stats.Snapshot `json:"data"`
	Timestamp string         `json:"timestamp"`
}

// Notifier turns domain changes into hub broadcasts. A nil Notifier or one
// without a hub does nothing.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) timestamp() string {
	return n.now().UTC().Format(time.RFC3339)
}

// JobsUpdated tells clients to refetch listings. jobID is uuid.Nil for bulk
// changes such as a finished scrape.
func (n *Notifier) JobsUpdated(source string, jobID uuid.UUID) {
	if n == nil || n.hub == nil {
		return
	}
	evt := JobsUpdatedEvent{Type: EventJobsUpdated, Source: source, Timestamp: n.timestamp()}
	if jobID != uuid.Nil {
		evt.JobID = &jobID
	}
	n.send(evt)
}

func (n *Notifier) Stats(s stats.Snapshot) {
	if n == nil || n.hub == nil {
		return
	}
	n.send(StatsEvent{Type: EventStats, Data: s, Timestamp: n.timestamp()})
}

func (n *Notifier) send(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
