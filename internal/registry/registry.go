package registry

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/npezzotti/scholarly/internal/store"
	"github.com/npezzotti/scholarly/internal/types"
	"github.com/teris-io/shortid"
)

var (
	ErrHubNotFound         = errors.New("hub not found")
	ErrClassNotFound       = errors.New("class not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidResourceType = errors.New("invalid resource type")
)

// Registry owns the in-memory hub tree. Every mutation derives the new tree
// under the lock and then writes the complete snapshot through the store;
// there is no partial persistence.
type Registry struct {
	log   *log.Logger
	store store.HubStore
	genId func() (string, error)
	now   func() time.Time

	mu   sync.RWMutex
	hubs []types.Hub
}

func NewRegistry(logger *log.Logger, hubStore store.HubStore) *Registry {
	return &Registry{
		log:   logger,
		store: hubStore,
		genId: shortid.Generate,
		now:   time.Now,
		hubs:  hubStore.Load(),
	}
}

type CreateHubParams struct {
	Name            string
	Description     string
	LogoUrl         string
	StudentPassword string
	AdminPassword   string
}

type PublishResourceParams struct {
	Type        types.ResourceType
	Title       string
	Description string
	Url         string
}

// Hubs returns a copy of the full hub list in stored order.
func (r *Registry) Hubs() []types.Hub {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneHubs(r.hubs)
}

// Hub returns a copy of a single hub.
func (r *Registry) Hub(id string) (types.Hub, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hub := r.findHub(id)
	if hub == nil {
		return types.Hub{}, false
	}

	return cloneHub(*hub), true
}

// Authenticate resolves a passphrase to a role. The admin phrase is checked
// first, so a phrase used for both roles grants the elevated one. A
// mismatch is not an error; it yields RoleNone.
func (r *Registry) Authenticate(hubId, passphrase string) (types.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hub := r.findHub(hubId)
	if hub == nil {
		return types.RoleNone, ErrHubNotFound
	}

	if passphrase == hub.AdminPassword {
		return types.RoleAdmin, nil
	} else if passphrase == hub.StudentPassword {
		return types.RoleStudent, nil
	}

	return types.RoleNone, nil
}

// CreateHub assigns a fresh id and prepends the hub to the list. The caller
// is not entered into the new hub.
func (r *Registry) CreateHub(p CreateHubParams) (types.Hub, error) {
	id, err := r.genId()
	if err != nil {
		return types.Hub{}, fmt.Errorf("generate id: %w", err)
	}

	hub := types.Hub{
		Id:              id,
		Name:            p.Name,
		Description:     p.Description,
		LogoUrl:         p.LogoUrl,
		StudentPassword: p.StudentPassword,
		AdminPassword:   p.AdminPassword,
		Classes:         []types.Class{},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.hubs = append([]types.Hub{hub}, r.hubs...)
	if err := r.persist(); err != nil {
		return types.Hub{}, err
	}

	return cloneHub(hub), nil
}

// DeleteHub removes a hub after re-checking the supplied admin passphrase.
// The check is independent of any session role. An unknown hub id is a
// no-op and reports deleted = false.
func (r *Registry) DeleteHub(id, adminPassphrase string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.hubs, func(h types.Hub) bool { return h.Id == id })
	if idx < 0 {
		return false, nil
	}

	if r.hubs[idx].AdminPassword != adminPassphrase {
		return false, ErrUnauthorized
	}

	r.hubs = slices.Delete(r.hubs, idx, idx+1)
	if err := r.persist(); err != nil {
		return true, err
	}

	return true, nil
}

// CreateClass prepends a new class to the hub's class list.
func (r *Registry) CreateClass(hubId, name, teacher string) (types.Class, error) {
	id, err := r.genId()
	if err != nil {
		return types.Class{}, fmt.Errorf("generate id: %w", err)
	}

	cls := types.Class{
		Id:        id,
		Name:      name,
		Teacher:   teacher,
		Resources: []types.Resource{},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	hub := r.findHub(hubId)
	if hub == nil {
		return types.Class{}, ErrHubNotFound
	}

	hub.Classes = append([]types.Class{cls}, hub.Classes...)
	if err := r.persist(); err != nil {
		return types.Class{}, err
	}

	return cloneClass(cls), nil
}

// PublishResource prepends a new resource to the class's resource list,
// stamped with the current time in epoch milliseconds.
func (r *Registry) PublishResource(hubId, classId string, p PublishResourceParams) (types.Resource, error) {
	if !p.Type.Valid() {
		return types.Resource{}, ErrInvalidResourceType
	}

	id, err := r.genId()
	if err != nil {
		return types.Resource{}, fmt.Errorf("generate id: %w", err)
	}

	res := types.Resource{
		Id:          id,
		Type:        p.Type,
		Title:       p.Title,
		Description: p.Description,
		Url:         p.Url,
		CreatedAt:   r.now().UnixMilli(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	hub := r.findHub(hubId)
	if hub == nil {
		return types.Resource{}, ErrHubNotFound
	}

	cls := findClass(hub, classId)
	if cls == nil {
		return types.Resource{}, ErrClassNotFound
	}

	cls.Resources = append([]types.Resource{res}, cls.Resources...)
	if err := r.persist(); err != nil {
		return types.Resource{}, err
	}

	return res, nil
}

// DeleteResource removes a resource from its class. A missing class or
// resource is a no-op.
func (r *Registry) DeleteResource(hubId, classId, resourceId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hub := r.findHub(hubId)
	if hub == nil {
		return ErrHubNotFound
	}

	cls := findClass(hub, classId)
	if cls == nil {
		return nil
	}

	idx := slices.IndexFunc(cls.Resources, func(res types.Resource) bool { return res.Id == resourceId })
	if idx < 0 {
		return nil
	}

	cls.Resources = slices.Delete(cls.Resources, idx, idx+1)
	return r.persist()
}

// persist writes the full snapshot. Callers must hold the write lock.
func (r *Registry) persist() error {
	if err := r.store.Save(cloneHubs(r.hubs)); err != nil {
		r.log.Printf("save snapshot: %v", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// findHub returns a pointer into the live tree. Callers must hold the lock.
func (r *Registry) findHub(id string) *types.Hub {
	for i := range r.hubs {
		if r.hubs[i].Id == id {
			return &r.hubs[i]
		}
	}
	return nil
}

func findClass(hub *types.Hub, id string) *types.Class {
	for i := range hub.Classes {
		if hub.Classes[i].Id == id {
			return &hub.Classes[i]
		}
	}
	return nil
}

func cloneHubs(hubs []types.Hub) []types.Hub {
	out := make([]types.Hub, len(hubs))
	for i, h := range hubs {
		out[i] = cloneHub(h)
	}
	return out
}

func cloneHub(h types.Hub) types.Hub {
	classes := make([]types.Class, len(h.Classes))
	for i, c := range h.Classes {
		classes[i] = cloneClass(c)
	}
	h.Classes = classes
	return h
}

func cloneClass(c types.Class) types.Class {
	c.Resources = slices.Clone(c.Resources)
	return c
}
