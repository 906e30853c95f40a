package faculty

import (
	"strconv"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/services"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LifecycleHandler serves the start and complete topic transitions
type LifecycleHandler struct {
	db     *gorm.DB
	topics *services.TopicService
}

// NewLifecycleHandler creates a new lifecycle handler
func NewLifecycleHandler(db *gorm.DB, topics *services.TopicService) *LifecycleHandler {
	return &LifecycleHandler{
		db:     db,
		topics: topics,
	}
}

// resolveOwnedTopic parses the topicId param and checks ownership. When it
// returns ok=false the error response has already been written.
func (h *LifecycleHandler) resolveOwnedTopic(c *fiber.Ctx) (uint, *middleware.Identity, bool, error) {
	identity, idOK := middleware.GetIdentity(c)
	if !idOK {
		return 0, nil, false, response.Unauthorized(c, "No token provided")
	}

	topicID, err := strconv.ParseUint(c.Params("topicId"), 10, 32)
	if err != nil {
		return 0, nil, false, response.BadRequest(c, "Invalid topic ID")
	}

	var count int64
	if err := h.db.WithContext(c.Context()).
		Model(&model.Topic{}).
		Where("id = ? AND creator_id = ?", topicID, identity.UserID).
		Count(&count).Error; err != nil {
		return 0, nil, false, response.InternalServerError(c, "Failed to fetch topic")
	}
	if count == 0 {
		return 0, nil, false, response.NotFound(c, "Topic not found")
	}

	return uint(topicID), identity, true, nil
}

// Start handles PUT /api/faculty/startTopic/:topicId
func (h *LifecycleHandler) Start(c *fiber.Ctx) error {
	topicID, identity, ok, errResp := h.resolveOwnedTopic(c)
	if !ok {
		return errResp
	}

	if err := h.topics.Start(c.Context(), topicID, identity.UserID); err != nil {
		switch err {
		case services.ErrTopicNotFound:
			return response.NotFound(c, "Topic not found")
		case services.ErrTopicNotInactive:
			return response.BadRequest(c, "Topic is not in a startable state")
		case services.ErrBeforeStartDate:
			return response.BadRequest(c, "Topic cannot be started before its start date")
		case services.ErrVacanciesNotFilled:
			return response.BadRequest(c, "All vacancies must be filled before starting the topic")
		default:
			return response.InternalServerError(c, "Failed to start topic")
		}
	}

	return response.SuccessWithMessage(c, "Topic started", nil)
}

// Complete handles PUT /api/faculty/completeTopic/:topicId
func (h *LifecycleHandler) Complete(c *fiber.Ctx) error {
	topicID, identity, ok, errResp := h.resolveOwnedTopic(c)
	if !ok {
		return errResp
	}

	if err := h.topics.Complete(c.Context(), topicID, identity.UserID); err != nil {
		switch err {
		case services.ErrTopicNotFound:
			return response.NotFound(c, "Topic not found")
		case services.ErrTopicNotActive:
			return response.BadRequest(c, "Topic is not active")
		case services.ErrBeforeEndDate:
			return response.BadRequest(c, "Topic cannot be completed before its end date")
		default:
			return response.InternalServerError(c, "Failed to complete topic")
		}
	}

	return response.SuccessWithMessage(c, "Topic completed", nil)
}
