package middleware

import (
	"strings"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/utils/auth"
	"github.com/collabity/collabity-api/utils/cache"
	"github.com/collabity/collabity-api/utils/response"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

// Identity is the immutable per-request caller context: the verified gateway
// UID plus the persisted user row it resolved to. It is constructed once by
// the middleware chain and read by handlers, never mutated.
type Identity struct {
	UID      string `json:"uid"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

const identityLocal = "identity"

// roleCacheTTL bounds how long a stale role can be served after a profile change
const roleCacheTTL = 5 * time.Minute

// AuthMiddleware verifies bearer tokens and binds the persisted role
type AuthMiddleware struct {
	verifier auth.TokenVerifier
	db       *gorm.DB
	cache    *cache.RedisCache
}

// NewAuthMiddleware creates a new auth middleware. cache may be nil, in which
// case every role lookup hits the database.
func NewAuthMiddleware(verifier auth.TokenVerifier, db *gorm.DB, redisCache *cache.RedisCache) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		db:       db,
		cache:    redisCache,
	}
}

// Required is middleware that requires a valid identity token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, errResp := m.resolveIdentity(c)
		if errResp != nil {
			return errResp(c)
		}

		c.Locals(identityLocal, identity)
		return c.Next()
	}
}

// RequireRole is middleware that requires a valid token AND a specific
// persisted role. Must run before any role-specific state mutation.
func (m *AuthMiddleware) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, errResp := m.resolveIdentity(c)
		if errResp != nil {
			return errResp(c)
		}

		if identity.Role != role {
			return response.Forbidden(c, "Forbidden")
		}

		c.Locals(identityLocal, identity)
		return c.Next()
	}
}

// resolveIdentity verifies the bearer token and loads the persisted user.
// Returns a deferred error responder so callers keep the fiber error flow.
func (m *AuthMiddleware) resolveIdentity(c *fiber.Ctx) (*Identity, func(*fiber.Ctx) error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "No token provided")
		}
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Invalid authorization format")
		}
	}

	uid, err := m.verifier.Verify(parts[1])
	if err != nil {
		return nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Invalid or expired token")
		}
	}

	identity, err := m.lookupUser(c, uid)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, func(c *fiber.Ctx) error {
				return response.NotFound(c, "User not found")
			}
		}
		return nil, func(c *fiber.Ctx) error {
			return response.InternalServerError(c, "Failed to load user")
		}
	}

	return identity, nil
}

// lookupUser resolves the persisted user for a UID, consulting the role cache
// first. Cache failures fall through to the database.
func (m *AuthMiddleware) lookupUser(c *fiber.Ctx, uid string) (*Identity, error) {
	cacheKey := "identity:" + uid

	if m.cache != nil {
		var cached Identity
		if err := m.cache.GetJSON(c.Context(), cacheKey, &cached); err == nil && cached.UserID != 0 {
			return &cached, nil
		}
	}

	var user model.User
	if err := m.db.WithContext(c.Context()).
		Where("firebase_uid = ?", uid).
		First(&user).Error; err != nil {
		return nil, err
	}

	identity := &Identity{
		UID:      uid,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	if m.cache != nil {
		_ = m.cache.SetJSON(c.Context(), cacheKey, identity, roleCacheTTL)
	}

	return identity, nil
}

// InvalidateIdentity drops the cached identity for a UID. Called after
// registration and profile updates so role changes take effect promptly.
func (m *AuthMiddleware) InvalidateIdentity(c *fiber.Ctx, uid string) {
	if m.cache != nil {
		_ = m.cache.Delete(c.Context(), "identity:"+uid)
	}
}

// GetIdentity extracts the caller identity from context
func GetIdentity(c *fiber.Ctx) (*Identity, bool) {
	identity := c.Locals(identityLocal)
	if identity == nil {
		return nil, false
	}
	id, ok := identity.(*Identity)
	return id, ok
}
