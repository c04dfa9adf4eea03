package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vibhusapra/phoenix/internal/modules/model"
	"github.com/vibhusapra/phoenix/internal/modules/service"
	"github.com/vibhusapra/phoenix/internal/pkg/apperr"
	"github.com/vibhusapra/phoenix/internal/pkg/auth"
	"github.com/vibhusapra/phoenix/internal/pkg/gid"
	"gorm.io/datatypes"
)

// MockSavedViewService is a mock implementation of SavedViewService
type MockSavedViewService struct {
	mock.Mock
}

func (m *MockSavedViewService) Create(ctx context.Context, caller *auth.Principal, in service.CreateSavedViewInput) (*model.SavedView, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedView), args.Error(1)
}

func (m *MockSavedViewService) Patch(ctx context.Context, caller *auth.Principal, in service.PatchSavedViewInput) (*model.SavedView, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SavedView), args.Error(1)
}

func (m *MockSavedViewService) Delete(ctx context.Context, caller *auth.Principal, in service.DeleteSavedViewsInput) error {
	args := m.Called(ctx, caller, in)
	return args.Error(0)
}

var testCaller = &auth.Principal{Identity: "2"}

func setupSavedViewRouter(h *SavedViewHandler, caller *auth.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			c.Set(auth.ContextKey, caller)
		}
		c.Next()
	})
	r.POST("/saved_views", h.CreateSavedView)
	r.PATCH("/saved_views/:view_id", h.PatchSavedView)
	r.DELETE("/saved_views", h.DeleteSavedViews)
	return r
}

func storedView() *model.SavedView {
	now := time.Date(2025, 8, 7, 9, 0, 0, 0, time.UTC)
	return &model.SavedView{
		ID:          10,
		Name:        "Slow LLM spans",
		ProjectID:   1,
		OwnerUserID: 2,
		Payload:     datatypes.JSONMap{"filterCondition": "span.name=='x'", "timeRangeKey": "last_24h"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSavedViewHandler_CreateSavedView(t *testing.T) {
	projectRef := gid.Encode(gid.KindProject, 1)

	tests := []struct {
		name           string
		body           string
		setup          func(*MockSavedViewService)
		expectedStatus int
		expectedReason string
	}{
		{
			name: "successful creation",
			body: `{"projectId":"` + projectRef + `","name":"Slow LLM spans","payload":{"filterCondition":"span.name=='x'","timeRangeKey":"last_24h"}}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Create", mock.Anything, testCaller, mock.MatchedBy(func(in service.CreateSavedViewInput) bool {
					cond, _ := in.Payload.FilterCondition.Get()
					return in.ProjectRef == projectRef &&
						in.Name == "Slow LLM spans" &&
						cond == "span.name=='x'" &&
						!in.Payload.TimeRangeStart.Provided()
				})).Return(storedView(), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing project",
			body:           `{"name":"x"}`,
			setup:          func(*MockSavedViewService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed json",
			body:           `{"projectId":`,
			setup:          func(*MockSavedViewService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate name",
			body: `{"projectId":"` + projectRef + `","name":"dup"}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Create", mock.Anything, testCaller, mock.Anything).
					Return(nil, apperr.Conflict("A view with this name already exists", errors.New("UNIQUE constraint failed")))
			},
			expectedStatus: http.StatusConflict,
			expectedReason: "CONFLICT",
		},
		{
			name: "rejected filter",
			body: `{"projectId":"` + projectRef + `","name":"bad","payload":{"filterCondition":"???"}}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Create", mock.Anything, testCaller, mock.Anything).Return(nil, apperr.ValidationFailed("Invalid filter condition"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedReason: "VALIDATION_FAILED",
		},
		{
			name: "service layer error",
			body: `{"projectId":"` + projectRef + `","name":"x"}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Create", mock.Anything, testCaller, mock.Anything).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockSavedViewService{}
			tt.setup(mockService)
			router := setupSavedViewRouter(NewSavedViewHandler(mockService), testCaller)

			w := doJSON(router, http.MethodPost, "/saved_views", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			if tt.expectedReason != "" {
				assert.Equal(t, tt.expectedReason, body["reason"])
			}
			if w.Code == http.StatusCreated {
				data := body["data"].(map[string]any)
				assert.Equal(t, gid.Encode(gid.KindSavedView, 10), data["id"])
				assert.Equal(t, projectRef, data["projectId"])
				assert.Equal(t, gid.Encode(gid.KindUser, 2), data["ownerId"])
				assert.Equal(t, "span.name=='x'", data["filterCondition"])
				assert.Equal(t, "last_24h", data["timeRangeKey"])
				assert.Nil(t, data["treatOrphansAsRoots"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestSavedViewHandler_CreateSavedView_Anonymous(t *testing.T) {
	mockService := &MockSavedViewService{}
	mockService.On("Create", mock.Anything, (*auth.Principal)(nil), mock.Anything).
		Return(nil, apperr.Unauthenticated("Authentication required"))
	router := setupSavedViewRouter(NewSavedViewHandler(mockService), nil)

	w := doJSON(router, http.MethodPost, "/saved_views", `{"projectId":"UHJvamVjdDox","name":"x"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", decodeBody(t, w)["msg"])
	mockService.AssertExpectations(t)
}

func TestSavedViewHandler_PatchSavedView(t *testing.T) {
	viewRef := gid.Encode(gid.KindSavedView, 10)

	tests := []struct {
		name           string
		body           string
		setup          func(*MockSavedViewService)
		expectedStatus int
	}{
		{
			name: "payload only with explicit null",
			body: `{"payload":{"timeRangeKey":null,"treatOrphansAsRoots":true}}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Patch", mock.Anything, testCaller, mock.MatchedBy(func(in service.PatchSavedViewInput) bool {
					p, ok := in.Payload.Get()
					if !ok || in.ViewRef != viewRef || in.Name.Provided() {
						return false
					}
					orphans, _ := p.TreatOrphansAsRoots.Get()
					return p.TimeRangeKey.IsNull() && orphans && !p.FilterCondition.Provided()
				})).Return(storedView(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "rename only",
			body: `{"name":"renamed"}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Patch", mock.Anything, testCaller, mock.MatchedBy(func(in service.PatchSavedViewInput) bool {
					name, _ := in.Name.Get()
					return name == "renamed" && !in.Payload.Provided()
				})).Return(storedView(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong field type",
			body:           `{"name":42}`,
			setup:          func(*MockSavedViewService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "not the owner",
			body: `{"name":"hijacked"}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Patch", mock.Anything, testCaller, mock.Anything).Return(nil, apperr.Unauthorized("Not allowed to modify this view"))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "missing view",
			body: `{"name":"x"}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Patch", mock.Anything, testCaller, mock.Anything).Return(nil, apperr.NotFound("SavedView not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "unreadable stored payload",
			body: `{"name":"x"}`,
			setup: func(svc *MockSavedViewService) {
				v := storedView()
				v.Payload = datatypes.JSONMap{"timeRange": map[string]any{"start": "soon"}}
				svc.On("Patch", mock.Anything, testCaller, mock.Anything).Return(v, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockSavedViewService{}
			tt.setup(mockService)
			router := setupSavedViewRouter(NewSavedViewHandler(mockService), testCaller)

			w := doJSON(router, http.MethodPatch, "/saved_views/"+viewRef, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestSavedViewHandler_DeleteSavedViews(t *testing.T) {
	refs := []string{gid.Encode(gid.KindSavedView, 1), gid.Encode(gid.KindSavedView, 2)}

	tests := []struct {
		name           string
		body           string
		setup          func(*MockSavedViewService)
		expectedStatus int
	}{
		{
			name: "successful deletion",
			body: `{"ids":["` + refs[0] + `","` + refs[1] + `"]}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Delete", mock.Anything, testCaller, service.DeleteSavedViewsInput{ViewRefs: refs}).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing ids",
			body:           `{}`,
			setup:          func(*MockSavedViewService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad reference",
			body: `{"ids":["nope"]}`,
			setup: func(svc *MockSavedViewService) {
				svc.On("Delete", mock.Anything, testCaller, mock.Anything).Return(apperr.InvalidInput("Invalid SavedView id: nope"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockSavedViewService{}
			tt.setup(mockService)
			router := setupSavedViewRouter(NewSavedViewHandler(mockService), testCaller)

			w := doJSON(router, http.MethodDelete, "/saved_views", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if w.Code == http.StatusOK {
				assert.Equal(t, true, decodeBody(t, w)["data"])
			}
			mockService.AssertExpectations(t)
		})
	}
}
