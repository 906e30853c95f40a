package student

import (
	"strconv"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/services"
	"github.com/collabity/collabity-api/storage"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TopicHandler serves the student side of topic browsing and applications
type TopicHandler struct {
	db           *gorm.DB
	topics       *services.TopicService
	participants *services.ParticipantService
}

// NewTopicHandler creates a new student topic handler
func NewTopicHandler(db *gorm.DB, topics *services.TopicService, participants *services.ParticipantService) *TopicHandler {
	return &TopicHandler{
		db:           db,
		topics:       topics,
		participants: participants,
	}
}

// GetDetails handles GET /api/student/getTopicDetails?topic_id=
func (h *TopicHandler) GetDetails(c *fiber.Ctx) error {
	topicID, err := strconv.ParseUint(c.Query("topic_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "topic_id is required as a query parameter")
	}

	db := h.db.WithContext(c.Context())

	var topic model.Topic
	if err := db.First(&topic, topicID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Topic not found")
		}
		return response.InternalServerError(c, "Failed to fetch topic")
	}

	var creator model.User
	professor := ""
	if err := db.Select("first_name", "last_name").
		First(&creator, topic.CreatorID).Error; err == nil {
		professor = creator.FirstName + " " + creator.LastName
	}

	var tags []string
	if err := db.Model(&model.Tag{}).
		Joins("JOIN topic_tags ON topic_tags.tag_id = tags.id").
		Where("topic_tags.topic_id = ?", topic.ID).
		Pluck("tags.name", &tags).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch topic")
	}

	documentLink := ""
	if topic.DocumentKey != "" {
		documentLink = "/api/student/downloadDocument/" + strconv.FormatUint(uint64(topic.ID), 10)
	}

	return response.Success(c, fiber.Map{
		"id":            topic.ID,
		"title":         topic.Title,
		"description":   topic.Description,
		"vacancies":     topic.Vacancies,
		"start_date":    topic.StartDate,
		"end_date":      topic.EndDate,
		"compensation":  topic.Compensation,
		"status":        topic.Status,
		"professor":     professor,
		"tags":          tags,
		"document_link": documentLink,
	})
}

// DownloadDocument handles GET /api/student/downloadDocument/:topic_id,
// streaming the topic's attached PDF
func (h *TopicHandler) DownloadDocument(c *fiber.Ctx) error {
	topicID, err := strconv.ParseUint(c.Params("topic_id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid topic ID")
	}

	content, err := h.topics.GetDocument(c.Context(), uint(topicID))
	if err != nil {
		switch err {
		case services.ErrTopicNotFound:
			return response.NotFound(c, "Topic not found")
		case storage.ErrNotFound:
			return response.NotFound(c, "No document attached to this topic")
		default:
			return response.InternalServerError(c, "Failed to fetch document")
		}
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="document.pdf"`)
	return c.Send(content)
}

// ApplyRequest carries a student application
type ApplyRequest struct {
	TopicID uint `json:"topic_id"`
}

// Apply handles POST /api/student/applyForTopic
func (h *TopicHandler) Apply(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.TopicID == 0 {
		return response.BadRequest(c, "topic_id is required")
	}

	if err := h.participants.Apply(c.Context(), req.TopicID, identity.UserID); err != nil {
		switch err {
		case services.ErrTopicNotFound:
			return response.NotFound(c, "Topic not found")
		case services.ErrAlreadyApplied:
			return response.Conflict(c, "You have already applied for this topic")
		default:
			return response.InternalServerError(c, "Failed to apply for topic")
		}
	}

	return response.Created(c, fiber.Map{"topic_id": req.TopicID})
}

// registeredEntry is one topic the student has applied to or works on
type registeredEntry struct {
	TopicID         uint      `json:"topic_id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`          // the application status
	TopicStatus     string    `json:"topic_status"`    // the topic lifecycle status
	Professor       string    `json:"professor"`
	ApplicationDate time.Time `json:"application_date"`
}

// ListRegistered handles GET /api/student/topics
func (h *TopicHandler) ListRegistered(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	var rows []registeredEntry
	if err := h.db.WithContext(c.Context()).
		Model(&model.Participant{}).
		Select("participants.topic_id, topics.title, participants.status, topics.status as topic_status, CONCAT(users.first_name, ' ', users.last_name) as professor, participants.application_date").
		Joins("JOIN topics ON topics.id = participants.topic_id").
		Joins("JOIN users ON users.id = topics.creator_id").
		Where("participants.student_id = ?", identity.UserID).
		Order("participants.application_date desc").
		Scan(&rows).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch registered topics")
	}

	return response.Success(c, rows)
}
