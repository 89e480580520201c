package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/npezzotti/scholarly/internal/config"
	"github.com/npezzotti/scholarly/internal/events"
	"github.com/npezzotti/scholarly/internal/registry"
	"github.com/npezzotti/scholarly/internal/stats"
	"github.com/npezzotti/scholarly/internal/store"
	"github.com/npezzotti/scholarly/internal/testutil"
	"github.com/npezzotti/scholarly/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// findCookie is a helper function to find a cookie by name in the response
// recorder. It returns the cookie if found, or nil if not found.
func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func seedHubs() []types.Hub {
	return []types.Hub{
		{
			Id:              "hub-a",
			Name:            "Hub A",
			Description:     "first hub",
			StudentPassword: "S1",
			AdminPassword:   "A1",
			Classes: []types.Class{
				{
					Id:      "cls-r1",
					Name:    "R1",
					Teacher: "Ms. Reed",
					Resources: []types.Resource{
						{Id: "doc1", Type: types.ResourceDocument, Title: "doc1", Description: "first doc", CreatedAt: 1},
					},
				},
				{
					Id:      "cls-r2",
					Name:    "R2",
					Teacher: "Mr. Vale",
					Resources: []types.Resource{
						{Id: "vid1", Type: types.ResourceVideo, Title: "vid1", Description: "first video", Url: "https://zoom.us/j/123", CreatedAt: 2},
					},
				},
			},
		},
		{
			Id:              "hub-b",
			Name:            "Hub B",
			Description:     "second hub",
			StudentPassword: "S2",
			AdminPassword:   "A2",
			Classes:         []types.Class{},
		},
	}
}

func newTestApp(t *testing.T, hubs []types.Hub) (*ScholarlyApp, *store.MockHubStore) {
	mockStore := &store.MockHubStore{}
	mockStore.On("Load").Return(hubs).Once()

	logger := testutil.TestLogger(t)
	reg := registry.NewRegistry(logger, mockStore)
	cfg := &config.Config{SigningKey: []byte("test-signing-key")}

	app := NewScholarlyApp(http.NewServeMux(), logger, reg, mockStore,
		events.NewNotifier(logger), stats.NoopStats{}, cfg)

	return app, mockStore
}

func withTestSession(r *http.Request, sess types.Session) *http.Request {
	return r.WithContext(WithSession(r.Context(), sess))
}

func Test_healthCheck(t *testing.T) {
	tcases := []struct {
		name    string
		mockErr error
	}{
		{
			name:    "successful health check",
			mockErr: nil,
		},
		{
			name:    "failed health check",
			mockErr: errors.New("store error"),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, mockStore := newTestApp(t, nil)
			defer mockStore.AssertExpectations(t)
			mockStore.On("Ping").Return(tc.mockErr).Once()

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			app.healthCheck(rr, req)

			if tc.mockErr != nil {
				assert.Equal(t, http.StatusInternalServerError, rr.Code, "expected status code to be 500")
			} else {
				assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
				assert.Equal(t, "OK", rr.Body.String(), "expected response body to be 'OK'")
			}
		})
	}
}

func Test_listHubs(t *testing.T) {
	tcases := []struct {
		name string
		q    string
		ids  []string
	}{
		{
			name: "no query lists all hubs",
			q:    "",
			ids:  []string{"hub-a", "hub-b"},
		},
		{
			name: "query narrows by description",
			q:    "SECOND",
			ids:  []string{"hub-b"},
		},
		{
			name: "no match yields an empty list",
			q:    "astronomy",
			ids:  []string{},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := newTestApp(t, seedHubs())

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/hubs?q="+tc.q, nil)
			app.listHubs(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)

			var hubs []HubResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&hubs))

			ids := []string{}
			for _, hub := range hubs {
				ids = append(ids, hub.Id)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func Test_listHubs_RedactsPassphrases(t *testing.T) {
	app, _ := newTestApp(t, seedHubs())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/hubs", nil)
	app.listHubs(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.NotContains(t, body, "A1", "expected admin passphrase to be redacted")
	assert.NotContains(t, body, "S1", "expected student passphrase to be redacted")
	assert.Contains(t, body, "class_count")
}

func Test_createHub(t *testing.T) {
	tcases := []struct {
		name        string
		body        any
		saveErr     error
		saves       bool
		expectedErr *ApiError
	}{
		{
			name: "successfully creates a hub",
			body: CreateHubRequest{
				Name:            "Hub C",
				Description:     "third hub",
				StudentPassword: "S3",
				AdminPassword:   "A3",
			},
			saves: true,
		},
		{
			name:        "failed with invalid json body",
			body:        "invalid json",
			expectedErr: NewBadRequestError(),
		},
		{
			name: "fails with missing name",
			body: CreateHubRequest{
				StudentPassword: "S3",
				AdminPassword:   "A3",
			},
			expectedErr: NewBadRequestError(),
		},
		{
			name: "fails with missing student passphrase",
			body: CreateHubRequest{
				Name:          "Hub C",
				AdminPassword: "A3",
			},
			expectedErr: NewBadRequestError(),
		},
		{
			name: "fails with missing admin passphrase",
			body: CreateHubRequest{
				Name:            "Hub C",
				StudentPassword: "S3",
			},
			expectedErr: NewBadRequestError(),
		},
		{
			name: "fails when the snapshot cannot be written",
			body: CreateHubRequest{
				Name:            "Hub C",
				StudentPassword: "S3",
				AdminPassword:   "A3",
			},
			saveErr:     errors.New("disk full"),
			saves:       true,
			expectedErr: NewInternalServerError(nil),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, mockStore := newTestApp(t, seedHubs())
			defer mockStore.AssertExpectations(t)

			if tc.saves {
				mockStore.On("Save", mock.Anything).Return(tc.saveErr).Once()
			}

			var req *http.Request
			switch v := tc.body.(type) {
			case string:
				req = httptest.NewRequest(http.MethodPost, "/api/hubs", strings.NewReader(v))
			case CreateHubRequest:
				body, err := json.Marshal(v)
				assert.NoError(t, err, "failed to marshal request body")
				req = httptest.NewRequest(http.MethodPost, "/api/hubs", bytes.NewBuffer(body))
			default:
				t.Fatalf("unsupported request body type: %T", v)
			}

			rr := httptest.NewRecorder()
			app.createHub(rr, req)

			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr.StatusCode, rr.Code, "expected status code to match")
				return
			}

			assert.Equal(t, http.StatusCreated, rr.Code)

			var hub HubResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&hub))
			assert.NotEmpty(t, hub.Id)
			assert.Equal(t, "Hub C", hub.Name)
			assert.Zero(t, hub.ClassCount)

			// creating a hub must not enter it
			assert.Nil(t, findCookie(rr, tokenCookieKey), "expected no session cookie on create")
		})
	}
}

func Test_enterHub(t *testing.T) {
	tcases := []struct {
		name         string
		hubId        string
		body         any
		expectedRole types.Role
		expectedErr  *ApiError
	}{
		{
			name:         "admin passphrase enters with admin role",
			hubId:        "hub-a",
			body:         EnterHubRequest{Password: "A1"},
			expectedRole: types.RoleAdmin,
		},
		{
			name:         "student passphrase enters with student role",
			hubId:        "hub-a",
			body:         EnterHubRequest{Password: "S1"},
			expectedRole: types.RoleStudent,
		},
		{
			name:        "wrong passphrase is rejected",
			hubId:       "hub-a",
			body:        EnterHubRequest{Password: "x"},
			expectedErr: NewInvalidAccessCodeError(),
		},
		{
			name:        "unknown hub",
			hubId:       "missing",
			body:        EnterHubRequest{Password: "A1"},
			expectedErr: NewNotFoundError(),
		},
		{
			name:        "missing passphrase",
			hubId:       "hub-a",
			body:        EnterHubRequest{},
			expectedErr: NewBadRequestError(),
		},
		{
			name:        "invalid json body",
			hubId:       "hub-a",
			body:        "invalid json",
			expectedErr: NewBadRequestError(),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := newTestApp(t, seedHubs())

			var req *http.Request
			switch v := tc.body.(type) {
			case string:
				req = httptest.NewRequest(http.MethodPost, "/api/hubs/enter?id="+tc.hubId, strings.NewReader(v))
			case EnterHubRequest:
				body, err := json.Marshal(v)
				assert.NoError(t, err)
				req = httptest.NewRequest(http.MethodPost, "/api/hubs/enter?id="+tc.hubId, bytes.NewBuffer(body))
			default:
				t.Fatalf("unsupported request body type: %T", v)
			}

			rr := httptest.NewRecorder()
			app.enterHub(rr, req)

			if tc.expectedErr != nil {
				var apiErr ApiError
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&apiErr))
				assert.Equal(t, tc.expectedErr.StatusCode, rr.Code)
				assert.Equal(t, *tc.expectedErr, apiErr, "expected ApiError response")
				assert.Nil(t, findCookie(rr, tokenCookieKey), "expected no session cookie on failure")
				return
			}

			assert.Equal(t, http.StatusOK, rr.Code)

			var sess SessionResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&sess))
			assert.Equal(t, tc.hubId, sess.HubId)
			assert.Equal(t, "Hub A", sess.HubName)
			assert.Equal(t, tc.expectedRole, sess.Role)

			cookie := findCookie(rr, tokenCookieKey)
			assert.NotNil(t, cookie, "expected a session cookie")

			extracted, err := app.extractSessionFromToken(cookie.Value)
			assert.NoError(t, err)
			assert.Equal(t, types.Session{HubId: tc.hubId, Role: tc.expectedRole}, extracted)
		})
	}
}

func Test_deleteHub(t *testing.T) {
	tcases := []struct {
		name        string
		hubId       string
		body        any
		saves       bool
		expectedErr *ApiError
	}{
		{
			name:  "correct admin passphrase deletes the hub",
			hubId: "hub-a",
			body:  DeleteHubRequest{AdminPassword: "A1"},
			saves: true,
		},
		{
			name:        "wrong passphrase is unauthorized",
			hubId:       "hub-a",
			body:        DeleteHubRequest{AdminPassword: "wrong"},
			expectedErr: NewUnauthorizedError(),
		},
		{
			name:  "unknown hub is a no-op",
			hubId: "missing",
			body:  DeleteHubRequest{AdminPassword: "A1"},
		},
		{
			name:        "missing passphrase",
			hubId:       "hub-a",
			body:        DeleteHubRequest{},
			expectedErr: NewBadRequestError(),
		},
		{
			name:        "missing hub id",
			hubId:       "",
			body:        DeleteHubRequest{AdminPassword: "A1"},
			expectedErr: NewBadRequestError(),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, mockStore := newTestApp(t, seedHubs())
			defer mockStore.AssertExpectations(t)

			if tc.saves {
				mockStore.On("Save", mock.Anything).Return(nil).Once()
			}

			body, err := json.Marshal(tc.body)
			assert.NoError(t, err)
			req := httptest.NewRequest(http.MethodDelete, "/api/hubs?id="+tc.hubId, bytes.NewBuffer(body))

			rr := httptest.NewRecorder()
			app.deleteHub(rr, req)

			if tc.expectedErr != nil {
				var apiErr ApiError
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&apiErr))
				assert.Equal(t, tc.expectedErr.StatusCode, rr.Code)
				assert.Equal(t, *tc.expectedErr, apiErr)

				_, ok := app.registry.Hub("hub-a")
				assert.True(t, ok, "expected hub-a to still be present")
				return
			}

			assert.Equal(t, http.StatusNoContent, rr.Code)

			if tc.saves {
				_, ok := app.registry.Hub(tc.hubId)
				assert.False(t, ok, "expected hub to be removed")
			}
		})
	}
}

func Test_deleteHub_ClearsOwnSession(t *testing.T) {
	app, mockStore := newTestApp(t, seedHubs())
	mockStore.On("Save", mock.Anything).Return(nil).Once()

	token, err := app.createJwtForSession(types.Session{HubId: "hub-a", Role: types.RoleStudent}, defaultJwtExpiration)
	assert.NoError(t, err)

	body, _ := json.Marshal(DeleteHubRequest{AdminPassword: "A1"})
	req := httptest.NewRequest(http.MethodDelete, "/api/hubs?id=hub-a", bytes.NewBuffer(body))
	req.AddCookie(createSessionCookie(token, defaultJwtExpiration))

	rr := httptest.NewRecorder()
	app.deleteHub(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	cookie := findCookie(rr, tokenCookieKey)
	assert.NotNil(t, cookie, "expected the session cookie to be overwritten")
	assert.Empty(t, cookie.Value, "expected the session cookie to be cleared")
}

func Test_session(t *testing.T) {
	app, _ := newTestApp(t, seedHubs())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req = withTestSession(req, types.Session{HubId: "hub-a", Role: types.RoleAdmin})

	rr := httptest.NewRecorder()
	app.session(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var sess SessionResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&sess))
	assert.Equal(t, SessionResponse{HubId: "hub-a", HubName: "Hub A", Role: types.RoleAdmin}, sess)
}

func Test_session_HubDeleted(t *testing.T) {
	app, _ := newTestApp(t, seedHubs())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req = withTestSession(req, types.Session{HubId: "gone", Role: types.RoleAdmin})

	rr := httptest.NewRecorder()
	app.session(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	cookie := findCookie(rr, tokenCookieKey)
	assert.NotNil(t, cookie, "expected the stale session cookie to be cleared")
	assert.Empty(t, cookie.Value)
}

func Test_leave(t *testing.T) {
	app, _ := newTestApp(t, seedHubs())

	rr := httptest.NewRecorder()
	app.leave(rr, httptest.NewRequest(http.MethodGet, "/api/auth/leave", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)

	cookie := findCookie(rr, tokenCookieKey)
	assert.NotNil(t, cookie)
	assert.Empty(t, cookie.Value, "expected the session cookie to be cleared")
}

func Test_listClasses(t *testing.T) {
	tcases := []struct {
		name      string
		q         string
		tab       string
		order     []string
		resources map[string][]string
		errCode   int
	}{
		{
			name:      "unfiltered view",
			order:     []string{"cls-r1", "cls-r2"},
			resources: map[string][]string{"cls-r1": {"doc1"}, "cls-r2": {"vid1"}},
		},
		{
			name:      "tab only empties non-matching classes",
			tab:       string(types.ResourceVideo),
			order:     []string{"cls-r1", "cls-r2"},
			resources: map[string][]string{"cls-r1": {}, "cls-r2": {"vid1"}},
		},
		{
			name:      "query hides classes without a match",
			q:         "doc1",
			order:     []string{"cls-r1"},
			resources: map[string][]string{"cls-r1": {"doc1"}},
		},
		{
			name:    "invalid tab",
			tab:     "PODCAST",
			errCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := newTestApp(t, seedHubs())

			req := httptest.NewRequest(http.MethodGet, "/api/classes?q="+tc.q+"&tab="+tc.tab, nil)
			req = withTestSession(req, types.Session{HubId: "hub-a", Role: types.RoleStudent})

			rr := httptest.NewRecorder()
			app.listClasses(rr, req)

			if tc.errCode != 0 {
				assert.Equal(t, tc.errCode, rr.Code)
				return
			}

			assert.Equal(t, http.StatusOK, rr.Code)

			var classes []ClassResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&classes))

			order := []string{}
			for _, cls := range classes {
				order = append(order, cls.Id)

				resIds := []string{}
				for _, res := range cls.Resources {
					resIds = append(resIds, res.Id)
				}
				assert.Equal(t, tc.resources[cls.Id], resIds, "resources for class %s", cls.Id)
			}
			assert.Equal(t, tc.order, order)
		})
	}
}

func Test_listClasses_MarksMeetingLinks(t *testing.T) {
	app, _ := newTestApp(t, seedHubs())

	req := httptest.NewRequest(http.MethodGet, "/api/classes", nil)
	req = withTestSession(req, types.Session{HubId: "hub-a", Role: types.RoleStudent})

	rr := httptest.NewRecorder()
	app.listClasses(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var classes []ClassResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&classes))

	byId := map[string]ResourceResponse{}
	for _, cls := range classes {
		for _, res := range cls.Resources {
			byId[res.Id] = res
		}
	}

	assert.False(t, byId["doc1"].Meeting, "expected a plain document not to be flagged")
	assert.True(t, byId["vid1"].Meeting, "expected a zoom.us link to be flagged as a meeting")
}

func Test_listClasses_HubDeleted(t *testing.T) {
	app, _ := newTestApp(t, seedHubs())

	req := httptest.NewRequest(http.MethodGet, "/api/classes", nil)
	req = withTestSession(req, types.Session{HubId: "gone", Role: types.RoleStudent})

	rr := httptest.NewRecorder()
	app.listClasses(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	cookie := findCookie(rr, tokenCookieKey)
	assert.NotNil(t, cookie, "expected the stale session cookie to be cleared")
}

func Test_createClass(t *testing.T) {
	tcases := []struct {
		name        string
		body        any
		saves       bool
		expectedErr *ApiError
	}{
		{
			name:  "successfully creates a class",
			body:  CreateClassRequest{Name: "Chemistry", Teacher: "Dr. Stone"},
			saves: true,
		},
		{
			name:        "fails with missing name",
			body:        CreateClassRequest{Teacher: "Dr. Stone"},
			expectedErr: NewBadRequestError(),
		},
		{
			name:        "fails with missing teacher",
			body:        CreateClassRequest{Name: "Chemistry"},
			expectedErr: NewBadRequestError(),
		},
		{
			name:        "invalid json body",
			body:        "invalid json",
			expectedErr: NewBadRequestError(),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, mockStore := newTestApp(t, seedHubs())
			defer mockStore.AssertExpectations(t)

			if tc.saves {
				mockStore.On("Save", mock.Anything).Return(nil).Once()
			}

			var req *http.Request
			switch v := tc.body.(type) {
			case string:
				req = httptest.NewRequest(http.MethodPost, "/api/classes", strings.NewReader(v))
			default:
				body, err := json.Marshal(v)
				assert.NoError(t, err)
				req = httptest.NewRequest(http.MethodPost, "/api/classes", bytes.NewBuffer(body))
			}
			req = withTestSession(req, types.Session{HubId: "hub-a", Role: types.RoleAdmin})

			rr := httptest.NewRecorder()
			app.createClass(rr, req)

			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr.StatusCode, rr.Code)
				return
			}

			assert.Equal(t, http.StatusCreated, rr.Code)

			var cls ClassResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&cls))
			assert.NotEmpty(t, cls.Id)
			assert.Equal(t, "Chemistry", cls.Name)
			assert.Equal(t, "Dr. Stone", cls.Teacher)
			assert.Empty(t, cls.Resources)

			hub, _ := app.registry.Hub("hub-a")
			assert.Equal(t, cls.Id, hub.Classes[0].Id, "expected the new class to be prepended")
		})
	}
}

func Test_publishResource(t *testing.T) {
	tcases := []struct {
		name        string
		body        any
		saves       bool
		expectedErr *ApiError
	}{
		{
			name: "successfully publishes a resource",
			body: PublishResourceRequest{
				ClassId:     "cls-r1",
				Type:        string(types.ResourceAnnouncement),
				Title:       "Exam moved",
				Description: "Now on Friday",
			},
			saves: true,
		},
		{
			name: "fails with unknown resource type",
			body: PublishResourceRequest{
				ClassId:     "cls-r1",
				Type:        "PODCAST",
				Title:       "t",
				Description: "d",
			},
			expectedErr: NewBadRequestError(),
		},
		{
			name: "fails with unknown class",
			body: PublishResourceRequest{
				ClassId:     "missing",
				Type:        string(types.ResourceDocument),
				Title:       "t",
				Description: "d",
			},
			expectedErr: NewNotFoundError(),
		},
		{
			name: "fails with missing title",
			body: PublishResourceRequest{
				ClassId:     "cls-r1",
				Type:        string(types.ResourceDocument),
				Description: "d",
			},
			expectedErr: NewBadRequestError(),
		},
		{
			name: "fails with missing description",
			body: PublishResourceRequest{
				ClassId: "cls-r1",
				Type:    string(types.ResourceDocument),
				Title:   "t",
			},
			expectedErr: NewBadRequestError(),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, mockStore := newTestApp(t, seedHubs())
			defer mockStore.AssertExpectations(t)

			if tc.saves {
				mockStore.On("Save", mock.Anything).Return(nil).Once()
			}

			body, err := json.Marshal(tc.body)
			assert.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/api/resources", bytes.NewBuffer(body))
			req = withTestSession(req, types.Session{HubId: "hub-a", Role: types.RoleAdmin})

			rr := httptest.NewRecorder()
			app.publishResource(rr, req)

			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr.StatusCode, rr.Code)
				return
			}

			assert.Equal(t, http.StatusCreated, rr.Code)

			var res ResourceResponse
			assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
			assert.NotEmpty(t, res.Id)
			assert.NotZero(t, res.CreatedAt)

			hub, _ := app.registry.Hub("hub-a")
			resources := hub.Classes[0].Resources
			assert.Len(t, resources, 2)
			assert.Equal(t, res.Id, resources[0].Id, "expected the new resource at index 0")
			assert.Equal(t, "doc1", resources[1].Id, "expected prior resources to retain their order")
		})
	}
}

func Test_deleteResource(t *testing.T) {
	tcases := []struct {
		name       string
		classId    string
		resourceId string
		saves      bool
	}{
		{
			name:       "successfully deletes a resource",
			classId:    "cls-r1",
			resourceId: "doc1",
			saves:      true,
		},
		{
			name:       "unknown resource is a no-op",
			classId:    "cls-r1",
			resourceId: "missing",
		},
		{
			name:       "unknown class is a no-op",
			classId:    "missing",
			resourceId: "doc1",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app, mockStore := newTestApp(t, seedHubs())
			defer mockStore.AssertExpectations(t)

			if tc.saves {
				mockStore.On("Save", mock.Anything).Return(nil).Once()
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/resources?class_id="+tc.classId+"&id="+tc.resourceId, nil)
			req = withTestSession(req, types.Session{HubId: "hub-a", Role: types.RoleAdmin})

			rr := httptest.NewRecorder()
			app.deleteResource(rr, req)

			assert.Equal(t, http.StatusNoContent, rr.Code)

			hub, _ := app.registry.Hub("hub-a")
			if tc.saves {
				assert.Empty(t, hub.Classes[0].Resources, "expected doc1 to be removed")
			} else {
				assert.Len(t, hub.Classes[0].Resources, 1, "expected the resource list to be unchanged")
			}
		})
	}
}
