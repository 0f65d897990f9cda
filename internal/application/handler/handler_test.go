package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/bookclub/internal/application/model"
	"github.com/festy23/bookclub/internal/application/service"
	"github.com/festy23/bookclub/internal/auth"
	communityModel "github.com/festy23/bookclub/internal/community/model"
	membershipModel "github.com/festy23/bookclub/internal/membership/model"
	"github.com/festy23/bookclub/internal/response"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateApplication(
	ctx context.Context,
	communityID, userID int64,
	message string,
) (*model.Application, error) {
	args := m.Called(ctx, communityID, userID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *mockService) FindApplicants(ctx context.Context, communityID, userID int64) ([]model.ApplicantView, error) {
	args := m.Called(ctx, communityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ApplicantView), args.Error(1)
}

func (m *mockService) UpdateApplicationStatus(
	ctx context.Context,
	communityID, applicantID int64,
	decision model.Decision,
	userID int64,
) (*model.DecisionResponse, error) {
	args := m.Called(ctx, communityID, applicantID, decision, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DecisionResponse), args.Error(1)
}

func (m *mockService) CancelApplication(ctx context.Context, applicationID, userID int64) error {
	args := m.Called(ctx, applicationID, userID)
	return args.Error(0)
}

func (m *mockService) ListMyApplications(ctx context.Context, userID int64) ([]model.MyApplicationView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MyApplicationView), args.Error(1)
}

var _ service.Service = (*mockService)(nil)

const callerID = int64(7)

func setupRouter(svc service.Service, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(svc, zap.NewNop().Sugar())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			auth.SetUserID(c, userID)
		}
	})
	r.POST("/communities/:communityId/apply", h.Apply)
	r.GET("/communities/:communityId/applicants", h.ListApplicants)
	r.PUT("/communities/:communityId/applicants/:userId", h.UpdateStatus)
	r.DELETE("/applications/:applicationId", h.Cancel)
	r.GET("/applications/me", h.ListMine)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHandler_Apply(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"created", nil, http.StatusCreated, ""},
		{"missing community", communityModel.ErrCommunityNotFound, http.StatusNotFound, response.CodeNotFound},
		{"not recruiting", communityModel.ErrNotRecruiting, http.StatusBadRequest, response.CodeNotRecruiting},
		{"already applied", model.ErrAlreadyApplied, http.StatusConflict, response.CodeAlreadyApplied},
		{"already member", membershipModel.ErrAlreadyMember, http.StatusConflict, response.CodeAlreadyMember},
		{"full", model.ErrCommunityFull, http.StatusConflict, response.CodeCommunityFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			call := svc.On("CreateApplication", mock.Anything, int64(3), callerID, "hi")
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(&model.Application{ID: 11, Status: model.StatusPending}, nil)
			}

			w := do(setupRouter(svc, callerID), http.MethodPost, "/communities/3/apply", `{"application_message":"hi"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
			} else {
				assert.Contains(t, w.Body.String(), `"application_id":11`)
			}
		})
	}
}

func TestHandler_Apply_EmptyBody(t *testing.T) {
	svc := new(mockService)
	svc.On("CreateApplication", mock.Anything, int64(3), callerID, "").
		Return(&model.Application{ID: 1}, nil)

	w := do(setupRouter(svc, callerID), http.MethodPost, "/communities/3/apply", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_Apply_Unauthenticated(t *testing.T) {
	svc := new(mockService)
	w := do(setupRouter(svc, 0), http.MethodPost, "/communities/3/apply", `{}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "CreateApplication", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_UpdateStatus(t *testing.T) {
	t.Run("lower case decision is accepted", func(t *testing.T) {
		svc := new(mockService)
		svc.On("UpdateApplicationStatus", mock.Anything, int64(3), int64(9), model.DecisionAccept, callerID).
			Return(&model.DecisionResponse{
				Application:   &model.Application{ID: 5, Status: model.StatusAccepted},
				CommunityID:   3,
				MemberCount:   2,
				CommunityFull: true,
			}, nil)

		w := do(setupRouter(svc, callerID), http.MethodPut, "/communities/3/applicants/9", `{"status":"accepted"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"community_full":true`)
		svc.AssertExpectations(t)
	})

	t.Run("unknown decision never reaches the service", func(t *testing.T) {
		svc := new(mockService)
		w := do(setupRouter(svc, callerID), http.MethodPut, "/communities/3/applicants/9", `{"status":"maybe"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.CodeInvalidRequest, errorCode(t, w))
		svc.AssertNotCalled(t, "UpdateApplicationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad applicant id", func(t *testing.T) {
		w := do(setupRouter(new(mockService), callerID), http.MethodPut, "/communities/3/applicants/x", `{"status":"rejected"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	errCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not leader", membershipModel.ErrNotLeader, http.StatusForbidden, response.CodeForbidden},
		{"no application", model.ErrApplicationNotFound, http.StatusNotFound, response.CodeNotFound},
		{"already processed", model.ErrAlreadyProcessed, http.StatusBadRequest, response.CodeAlreadyProcessed},
		{"double admission", membershipModel.ErrAlreadyMember, http.StatusConflict, response.CodeAlreadyMember},
		{"full", model.ErrCommunityFull, http.StatusConflict, response.CodeCommunityFull},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("UpdateApplicationStatus", mock.Anything, int64(3), int64(9), model.DecisionReject, callerID).
				Return(nil, tt.err)

			w := do(setupRouter(svc, callerID), http.MethodPut, "/communities/3/applicants/9", `{"status":"REJECTED"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestHandler_Cancel(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"cancelled", nil, http.StatusOK, ""},
		{"gone", model.ErrApplicationNotFound, http.StatusNotFound, response.CodeNotFound},
		{"not owner", model.ErrNotOwner, http.StatusForbidden, response.CodeForbidden},
		{"not pending", model.ErrNotPending, http.StatusBadRequest, response.CodeNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("CancelApplication", mock.Anything, int64(11), callerID).Return(tt.err)

			w := do(setupRouter(svc, callerID), http.MethodDelete, "/applications/11", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
			}
		})
	}
}

func TestHandler_ListApplicantsAndMine(t *testing.T) {
	svc := new(mockService)
	svc.On("FindApplicants", mock.Anything, int64(3), callerID).
		Return([]model.ApplicantView{{ApplicationID: 1, Nickname: "alice"}}, nil)
	svc.On("ListMyApplications", mock.Anything, callerID).
		Return([]model.MyApplicationView{{ApplicationID: 2, CommunityTitle: "Dune"}}, nil)
	r := setupRouter(svc, callerID)

	w := do(r, http.MethodGet, "/communities/3/applicants", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"nickname":"alice"`))

	w = do(r, http.MethodGet, "/applications/me", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"community_title":"Dune"`)
}
