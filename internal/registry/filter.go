package registry

import (
	"strings"

	"github.com/npezzotti/scholarly/internal/types"
)

// TabAll selects every resource type in FilterClasses.
const TabAll = "ALL"

// SearchHubs narrows the hub list to those whose name or description
// contains q as a case-insensitive substring. An empty q returns every hub
// in stored order.
func (r *Registry) SearchHubs(q string) []types.Hub {
	hubs := r.Hubs()
	if q == "" {
		return hubs
	}

	lq := strings.ToLower(q)
	out := []types.Hub{}
	for _, hub := range hubs {
		if containsFold(hub.Name, lq) || containsFold(hub.Description, lq) {
			out = append(out, hub)
		}
	}

	return out
}

// FilterClasses applies the within-hub search. A resource is retained when
// it matches both the query (against class name, resource title and
// resource description) and the type tab. A class with no retained
// resources is still listed when the query is empty, but hidden when a
// non-empty query found nothing in it. Stored order is never changed.
func (r *Registry) FilterClasses(hubId, q, tab string) ([]types.Class, error) {
	if tab == "" {
		tab = TabAll
	}
	if tab != TabAll && !types.ResourceType(tab).Valid() {
		return nil, ErrInvalidResourceType
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	hub := r.findHub(hubId)
	if hub == nil {
		return nil, ErrHubNotFound
	}

	lq := strings.ToLower(q)
	out := []types.Class{}
	for _, cls := range hub.Classes {
		kept := cls
		kept.Resources = []types.Resource{}
		for _, res := range cls.Resources {
			matchesSearch := q == "" ||
				containsFold(cls.Name, lq) ||
				containsFold(res.Title, lq) ||
				containsFold(res.Description, lq)
			matchesTab := tab == TabAll || res.Type == types.ResourceType(tab)

			if matchesSearch && matchesTab {
				kept.Resources = append(kept.Resources, res)
			}
		}

		if len(kept.Resources) > 0 || q == "" {
			out = append(out, kept)
		}
	}

	return out, nil
}

// containsFold reports whether s contains the already-lowercased substr.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
