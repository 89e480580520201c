package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/scholarly/internal/events"
	"github.com/npezzotti/scholarly/internal/registry"
	"github.com/npezzotti/scholarly/internal/stats"
	"github.com/npezzotti/scholarly/internal/types"
)

// meetingDomain marks video resources that link into a live meeting room.
// Recognition only changes labeling on the client.
const meetingDomain = "zoom.us"

type CreateHubRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	LogoUrl         string `json:"logoUrl"`
	StudentPassword string `json:"studentPassword" validate:"required"`
	AdminPassword   string `json:"adminPassword" validate:"required"`
}

type DeleteHubRequest struct {
	AdminPassword string `json:"adminPassword" validate:"required"`
}

type EnterHubRequest struct {
	Password string `json:"password" validate:"required"`
}

type CreateClassRequest struct {
	Name    string `json:"name" validate:"required"`
	Teacher string `json:"teacher" validate:"required"`
}

type PublishResourceRequest struct {
	ClassId     string `json:"class_id" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Url         string `json:"url"`
}

// HubResponse is the redacted listing view of a hub; passphrases never
// leave the server.
type HubResponse struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoUrl     string `json:"logoUrl,omitempty"`
	ClassCount  int    `json:"class_count"`
}

type ResourceResponse struct {
	Id          string             `json:"id"`
	Type        types.ResourceType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Url         string             `json:"url,omitempty"`
	Meeting     bool               `json:"meeting"`
	CreatedAt   int64              `json:"createdAt"`
}

type ClassResponse struct {
	Id        string             `json:"id"`
	Name      string             `json:"name"`
	Teacher   string             `json:"teacher"`
	Resources []ResourceResponse `json:"resources"`
}

type SessionResponse struct {
	HubId   string     `json:"hub_id"`
	HubName string     `json:"hub_name"`
	Role    types.Role `json:"role"`
}

func toHubResponse(hub types.Hub) HubResponse {
	return HubResponse{
		Id:          hub.Id,
		Name:        hub.Name,
		Description: hub.Description,
		LogoUrl:     hub.LogoUrl,
		ClassCount:  len(hub.Classes),
	}
}

func toResourceResponse(res types.Resource) ResourceResponse {
	return ResourceResponse{
		Id:          res.Id,
		Type:        res.Type,
		Title:       res.Title,
		Description: res.Description,
		Url:         res.Url,
		Meeting:     res.Url != "" && strings.Contains(res.Url, meetingDomain),
		CreatedAt:   res.CreatedAt,
	}
}

func toClassResponse(cls types.Class) ClassResponse {
	resources := []ResourceResponse{}
	for _, res := range cls.Resources {
		resources = append(resources, toResourceResponse(res))
	}

	return ClassResponse{
		Id:        cls.Id,
		Name:      cls.Name,
		Teacher:   cls.Teacher,
		Resources: resources,
	}
}

func (s *ScholarlyApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *ScholarlyApp) countMetric(name string) {
	if s.stats != nil {
		s.stats.Incr(name)
	}
}

func (s *ScholarlyApp) notify(ev events.Event) {
	if s.notifier != nil {
		s.notifier.Broadcast(ev)
	}
}

func (s *ScholarlyApp) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		s.log.Println("health check:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *ScholarlyApp) listHubs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	hubs := []HubResponse{}
	for _, hub := range s.registry.SearchHubs(q) {
		hubs = append(hubs, toHubResponse(hub))
	}

	s.writeJson(w, http.StatusOK, hubs)
}

func (s *ScholarlyApp) createHub(w http.ResponseWriter, r *http.Request) {
	var req CreateHubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	hub, err := s.registry.CreateHub(registry.CreateHubParams{
		Name:            req.Name,
		Description:     req.Description,
		LogoUrl:         req.LogoUrl,
		StudentPassword: req.StudentPassword,
		AdminPassword:   req.AdminPassword,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.countMetric(stats.MetricHubsCreated)
	s.notify(events.Event{Type: events.EventHubCreated, HubId: hub.Id})

	s.writeJson(w, http.StatusCreated, toHubResponse(hub))
}

func (s *ScholarlyApp) deleteHub(w http.ResponseWriter, r *http.Request) {
	hubId := r.URL.Query().Get("id")
	if hubId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req DeleteHubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// deletion re-authenticates against the hub's admin passphrase and
	// ignores any session role
	deleted, err := s.registry.DeleteHub(hubId, req.AdminPassword)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, registry.ErrUnauthorized) {
			s.countMetric(stats.MetricAuthFailures)
			errResp = NewUnauthorizedError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if deleted {
		s.countMetric(stats.MetricHubsDeleted)
		s.notify(events.Event{Type: events.EventHubDeleted, HubId: hubId})

		// the caller's own session ends with the hub it referenced
		if cookie, err := r.Cookie(tokenCookieKey); err == nil {
			if sess, err := s.extractSessionFromToken(cookie.Value); err == nil && sess.HubId == hubId {
				http.SetCookie(w, expiredSessionCookie())
			}
		}
	}

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *ScholarlyApp) enterHub(w http.ResponseWriter, r *http.Request) {
	hubId := r.URL.Query().Get("id")
	if hubId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req EnterHubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	role, err := s.registry.Authenticate(hubId, req.Password)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, registry.ErrHubNotFound) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if role == types.RoleNone {
		s.countMetric(stats.MetricAuthFailures)
		errResp := NewInvalidAccessCodeError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	sess := types.Session{HubId: hubId, Role: role}
	token, err := s.createJwtForSession(sess, defaultJwtExpiration)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	http.SetCookie(w, createSessionCookie(token, defaultJwtExpiration))

	hub, _ := s.registry.Hub(hubId)
	s.writeJson(w, http.StatusOK, SessionResponse{
		HubId:   hubId,
		HubName: hub.Name,
		Role:    role,
	})
}

func (s *ScholarlyApp) session(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	hub, ok := s.registry.Hub(sess.HubId)
	if !ok {
		// the entered hub was deleted since the cookie was issued
		http.SetCookie(w, expiredSessionCookie())
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, SessionResponse{
		HubId:   hub.Id,
		HubName: hub.Name,
		Role:    sess.Role,
	})
}

func (s *ScholarlyApp) leave(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, expiredSessionCookie())
	w.WriteHeader(http.StatusNoContent)
}

func (s *ScholarlyApp) listClasses(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	q := r.URL.Query().Get("q")
	tab := r.URL.Query().Get("tab")

	classes, err := s.registry.FilterClasses(sess.HubId, q, tab)
	if err != nil {
		var errResp *ApiError
		switch {
		case errors.Is(err, registry.ErrHubNotFound):
			http.SetCookie(w, expiredSessionCookie())
			errResp = NewUnauthorizedError()
		case errors.Is(err, registry.ErrInvalidResourceType):
			errResp = NewBadRequestError()
		default:
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	classResponses := []ClassResponse{}
	for _, cls := range classes {
		classResponses = append(classResponses, toClassResponse(cls))
	}

	s.writeJson(w, http.StatusOK, classResponses)
}

func (s *ScholarlyApp) createClass(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())

	var req CreateClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	cls, err := s.registry.CreateClass(sess.HubId, req.Name, req.Teacher)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, registry.ErrHubNotFound) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.countMetric(stats.MetricClassesCreated)
	s.notify(events.Event{Type: events.EventClassCreated, HubId: sess.HubId, ClassId: cls.Id})

	s.writeJson(w, http.StatusCreated, toClassResponse(cls))
}

func (s *ScholarlyApp) publishResource(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())

	var req PublishResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	res, err := s.registry.PublishResource(sess.HubId, req.ClassId, registry.PublishResourceParams{
		Type:        types.ResourceType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Url:         req.Url,
	})
	if err != nil {
		var errResp *ApiError
		switch {
		case errors.Is(err, registry.ErrInvalidResourceType):
			errResp = NewBadRequestError()
		case errors.Is(err, registry.ErrHubNotFound), errors.Is(err, registry.ErrClassNotFound):
			errResp = NewNotFoundError()
		default:
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.countMetric(stats.MetricResourcesPublished)
	s.notify(events.Event{
		Type:       events.EventResourcePublished,
		HubId:      sess.HubId,
		ClassId:    req.ClassId,
		ResourceId: res.Id,
	})

	s.writeJson(w, http.StatusCreated, toResourceResponse(res))
}

func (s *ScholarlyApp) deleteResource(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())

	classId := r.URL.Query().Get("class_id")
	resourceId := r.URL.Query().Get("id")
	if classId == "" || resourceId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// deleting an already-missing resource is a no-op, not a failure
	if err := s.registry.DeleteResource(sess.HubId, classId, resourceId); err != nil {
		var errResp *ApiError
		if errors.Is(err, registry.ErrHubNotFound) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.countMetric(stats.MetricResourcesDeleted)
	s.notify(events.Event{
		Type:       events.EventResourceDeleted,
		HubId:      sess.HubId,
		ClassId:    classId,
		ResourceId: resourceId,
	})

	s.writeJson(w, http.StatusNoContent, nil)
}

func (s *ScholarlyApp) serveWs(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFrom(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if _, ok := s.registry.Hub(sess.HubId); !ok {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	client := events.NewClient(sess.HubId, conn, s.notifier, s.log, s.stats)

	s.notifier.Register(client)
	s.countMetric(stats.MetricActiveWatchers)
	go client.Write()
	go client.Read()
}
