package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

func setupRolesRouter(user *model.User, roles ...model.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/admin",
		func(c *gin.Context) {
			if user != nil {
				SetUserToContext(c, *user)
			}
			c.Next()
		},
		RequireRoles(roles...),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		user     *model.User
		roles    []model.Role
		wantCode int
	}{
		{
			name:     "allowed role",
			user:     &model.User{ID: uuid.New(), Role: model.RoleAdmin},
			roles:    []model.Role{model.RoleAdmin},
			wantCode: http.StatusOK,
		},
		{
			name:     "one of several",
			user:     &model.User{ID: uuid.New(), Role: model.RoleTutor},
			roles:    []model.Role{model.RoleTutor, model.RoleAdmin},
			wantCode: http.StatusOK,
		},
		{
			name:     "role not allowed",
			user:     &model.User{ID: uuid.New(), Role: model.RoleStudent},
			roles:    []model.Role{model.RoleAdmin},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "no authenticated user",
			user:     nil,
			roles:    []model.Role{model.RoleAdmin},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := setupRolesRouter(tt.user, tt.roles...)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
