package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frota/internal/accesspolicy"
	"frota/pkg/apperrors"
)

func middlewareContext(t *testing.T, authorization string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/work-orders", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}

	return c, recorder
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	staffID := uuid.New().String()
	token, err := GenerateJWT(staffID, "coordinator")
	require.NoError(t, err)

	c, _ := middlewareContext(t, "Bearer "+token)
	JWTMiddleware()(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, staffID, c.GetString("staffID"))
	assert.Equal(t, "coordinator", c.GetString("role"))
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	c, recorder := middlewareContext(t, "")
	JWTMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTMiddlewareRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(uuid.New().String(), "mechanic")
	require.NoError(t, err)

	c, recorder := middlewareContext(t, "Bearer "+token+"x")
	JWTMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTMiddlewareRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT(uuid.New().String(), "mechanic")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	c, recorder := middlewareContext(t, "Bearer "+token)
	JWTMiddleware()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

// stubActorResolver resolves a single known staff id.
type stubActorResolver struct {
	staffID uuid.UUID
	actor   accesspolicy.Actor
}

func (s *stubActorResolver) ResolveActor(staffID uuid.UUID) (accesspolicy.Actor, error) {
	if staffID != s.staffID {
		return accesspolicy.Actor{}, apperrors.NewNotFound("staff_member", staffID)
	}
	return s.actor, nil
}

func TestActorMiddlewareResolvesActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	staffID := uuid.New()
	resolver := &stubActorResolver{
		staffID: staffID,
		actor:   accesspolicy.Actor{StaffID: staffID, RoleLevel: 3},
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("staffID", staffID.String())
	ActorMiddleware(resolver)(c)

	require.False(t, c.IsAborted())
	actor, ok := ActorFromContext(c)
	require.True(t, ok)
	assert.Equal(t, staffID, actor.StaffID)
	assert.Equal(t, 3, actor.RoleLevel)
}

func TestActorMiddlewareRejectsUnknownStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := &stubActorResolver{staffID: uuid.New()}

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("staffID", uuid.New().String())
	ActorMiddleware(resolver)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
