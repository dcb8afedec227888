package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careerai/backend/internal/api/middleware"
	"github.com/careerai/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) SetApproval(ctx context.Context, targetUserID string, approve bool, approverEmail string) (*models.User, error) {
	args := m.Called(ctx, targetUserID, approve, approverEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// identity simulates JWTAuth having resolved the caller. Empty values mean
// the corresponding claim was never set.
func identity(userID, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		if email != "" {
			c.Set("email", email)
		}
		c.Next()
	}
}

func newAdminRouter(svc *MockApprovalService, userID, email string, allowlist []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/admin", identity(userID, email), middleware.AdminAllowlist(allowlist))
	grp.POST("/users/approve", NewAdminHandler(svc).ApproveUser)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestApproveUser_Success(t *testing.T) {
	svc := &MockApprovalService{}
	svc.On("SetApproval", mock.Anything, "u1", true, "a@b.com").
		Return(&models.User{ID: "u1", Approved: true}, nil)

	r := newAdminRouter(svc, "admin-1", "a@b.com", []string{"a@b.com"})
	w := postJSON(r, "/admin/users/approve", `{"userId":"u1","approve":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	svc.AssertExpectations(t)
}

func TestApproveUser_AllowlistIsCaseInsensitive(t *testing.T) {
	svc := &MockApprovalService{}
	svc.On("SetApproval", mock.Anything, "u1", false, "Admin@B.com").
		Return(&models.User{ID: "u1"}, nil)

	r := newAdminRouter(svc, "admin-1", "Admin@B.com", []string{"admin@b.com"})
	w := postJSON(r, "/admin/users/approve", `{"userId":"u1","approve":false}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApproveUser_NonAdminForbidden(t *testing.T) {
	svc := &MockApprovalService{}
	r := newAdminRouter(svc, "user-9", "x@y.com", []string{"a@b.com"})
	w := postJSON(r, "/admin/users/approve", `{"userId":"u1","approve":true}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "SetApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveUser_UnauthenticatedBeforeAllowlist(t *testing.T) {
	svc := &MockApprovalService{}
	r := newAdminRouter(svc, "", "", []string{"a@b.com"})
	w := postJSON(r, "/admin/users/approve", `{"userId":"u1","approve":true}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "SetApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveUser_StringApproveRejected(t *testing.T) {
	svc := &MockApprovalService{}
	r := newAdminRouter(svc, "admin-1", "a@b.com", []string{"a@b.com"})

	// "true" as a string must not be coerced into a bool.
	w := postJSON(r, "/admin/users/approve", `{"userId":"u1","approve":"true"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SetApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveUser_MissingFieldsRejected(t *testing.T) {
	svc := &MockApprovalService{}
	r := newAdminRouter(svc, "admin-1", "a@b.com", []string{"a@b.com"})

	for _, body := range []string{`{}`, `{"userId":"u1"}`, `{"approve":true}`, `{"userId":"","approve":true}`} {
		w := postJSON(r, "/admin/users/approve", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
	svc.AssertNotCalled(t, "SetApproval", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
