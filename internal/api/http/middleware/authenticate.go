package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adelaidehub/studyhub-server/internal/logger"
	"github.com/adelaidehub/studyhub-server/internal/model"
)

// userKey is the gin context key the authenticated user is stored under.
const userKey = "auth_user"

// Authenticate validates session tokens and injects the caller into the
// request context.
type Authenticate struct {
	tokens     model.TokenManager
	userStore  model.UserStore
	cookieName string
	logger     *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenManager, userStore model.UserStore, cookieName string, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		tokens:     tokens,
		userStore:  userStore,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Handle extracts the token from the Authorization header, falling back to
// the session cookie, and resolves the caller. Requests without a valid token
// for an existing user are rejected with 401.
func (m *Authenticate) Handle(c *gin.Context) {
	tokenString := ""
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		tokenString = strings.TrimPrefix(auth, "Bearer ")
	} else if cookie, err := c.Cookie(m.cookieName); err == nil {
		tokenString = cookie
	}

	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "authorization token required",
		})
		return
	}

	userID, _, err := m.tokens.Parse(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"error", err.Error())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "invalid authorization token",
		})
		return
	}

	user, err := m.userStore.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "invalid authorization token",
		})
		return
	}

	c.Set(userKey, user.Sanitized())
	c.Next()
}

// UserFromContext returns the authenticated user set by Authenticate.
func UserFromContext(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

// SetUserToContext stores the user the way Authenticate does. Used by tests.
func SetUserToContext(c *gin.Context, user model.User) {
	c.Set(userKey, user)
}
