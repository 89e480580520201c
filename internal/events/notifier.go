package events

import (
	"log"
	"sync"
	"time"
)

// Notifier fans mutation events out to connected watchers so an entered
// client can re-render without polling.
type Notifier struct {
	log *log.Logger

	clientsLock sync.Mutex
	clients     map[*Client]struct{}
}

func NewNotifier(logger *log.Logger) *Notifier {
	return &Notifier{
		log:     logger,
		clients: make(map[*Client]struct{}),
	}
}

func (n *Notifier) Register(c *Client) {
	n.clientsLock.Lock()
	defer n.clientsLock.Unlock()
	n.clients[c] = struct{}{}
}

func (n *Notifier) Deregister(c *Client) {
	n.clientsLock.Lock()
	defer n.clientsLock.Unlock()
	delete(n.clients, c)
}

// Broadcast queues ev on every watcher it concerns. Slow watchers are
// skipped rather than blocking the caller.
func (n *Notifier) Broadcast(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	n.clientsLock.Lock()
	defer n.clientsLock.Unlock()

	for c := range n.clients {
		if !ev.directory() && c.hubId != ev.HubId {
			continue
		}
		if !c.queueEvent(ev) {
			n.log.Printf("dropping %s event for slow watcher on hub %q", ev.Type, c.hubId)
		}
	}
}

// Shutdown stops every connected watcher.
func (n *Notifier) Shutdown() {
	n.clientsLock.Lock()
	defer n.clientsLock.Unlock()

	for c := range n.clients {
		c.stopClient()
	}
	n.clients = make(map[*Client]struct{})
}
