package tag

import (
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/utils/cache"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/collabity/collabity-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	tagCatalogKey = "tags:catalog"
	tagCatalogTTL = 10 * time.Minute
)

// TagHandler serves the tag catalog used for registration and topic creation
type TagHandler struct {
	db        *gorm.DB
	cache     *cache.RedisCache
	validator *validation.Validator
}

// NewTagHandler creates a new tag handler. cache may be nil.
func NewTagHandler(db *gorm.DB, redisCache *cache.RedisCache) *TagHandler {
	return &TagHandler{
		db:        db,
		cache:     redisCache,
		validator: validation.NewValidator(),
	}
}

// List handles GET /api/tags
func (h *TagHandler) List(c *fiber.Ctx) error {
	if h.cache != nil {
		var cached []model.Tag
		if err := h.cache.GetJSON(c.Context(), tagCatalogKey, &cached); err == nil && len(cached) > 0 {
			return response.Success(c, cached)
		}
	}

	var tags []model.Tag
	if err := h.db.WithContext(c.Context()).Order("name asc").Find(&tags).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch tags")
	}

	if h.cache != nil {
		_ = h.cache.SetJSON(c.Context(), tagCatalogKey, tags, tagCatalogTTL)
	}

	return response.Success(c, tags)
}

// CreateTagRequest represents a new catalog entry
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,max=20"`
}

// Create handles POST /api/tags (admin only)
func (h *TagHandler) Create(c *fiber.Ctx) error {
	var req CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	tag := model.Tag{
		Name:  validation.SanitizeString(req.Name),
		Color: req.Color,
	}
	if err := h.db.Create(&tag).Error; err != nil {
		return response.Conflict(c, "Tag already exists")
	}

	if h.cache != nil {
		_ = h.cache.Delete(c.Context(), tagCatalogKey)
	}

	return response.Created(c, tag)
}
