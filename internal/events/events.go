package events

import (
	"time"
)

// Event types pushed to watching clients.
const (
	EventHubCreated        = "hub.created"
	EventHubDeleted        = "hub.deleted"
	EventClassCreated      = "class.created"
	EventResourcePublished = "resource.published"
	EventResourceDeleted   = "resource.deleted"
)

// Event describes a single mutation of the hub tree. Directory-level events
// (hub.created, hub.deleted) reach every watcher; the rest only reach
// watchers entered into the affected hub.
type Event struct {
	Type       string    `json:"type"`
	HubId      string    `json:"hub_id"`
	ClassId    string    `json:"class_id,omitempty"`
	ResourceId string    `json:"resource_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (ev Event) directory() bool {
	return ev.Type == EventHubCreated || ev.Type == EventHubDeleted
}
