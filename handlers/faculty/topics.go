package faculty

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/services"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/pdfvalidation"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/collabity/collabity-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxTopicTags = 5

// TopicHandler serves the faculty side of topic management
type TopicHandler struct {
	db     *gorm.DB
	topics *services.TopicService
}

// NewTopicHandler creates a new faculty topic handler
func NewTopicHandler(db *gorm.DB, topics *services.TopicService) *TopicHandler {
	return &TopicHandler{
		db:     db,
		topics: topics,
	}
}

// Create handles POST /api/faculty/topics (multipart form).
// Form fields: researchTopic, topicDescription, vacancies, startDate, endDate,
// compensation, tags (JSON array of tag IDs), document (optional PDF).
func (h *TopicHandler) Create(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	title := validation.SanitizeString(c.FormValue("researchTopic"))
	description := validation.SanitizeString(c.FormValue("topicDescription"))
	if title == "" || description == "" {
		return response.BadRequest(c, "researchTopic and topicDescription are required")
	}

	vacancies, err := strconv.Atoi(c.FormValue("vacancies"))
	if err != nil || vacancies < 1 {
		return response.BadRequest(c, "vacancies must be a positive integer")
	}

	startDate, err := time.Parse("2006-01-02", c.FormValue("startDate"))
	if err != nil {
		return response.BadRequest(c, "startDate must be YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", c.FormValue("endDate"))
	if err != nil {
		return response.BadRequest(c, "endDate must be YYYY-MM-DD")
	}
	if !endDate.After(startDate) {
		return response.BadRequest(c, "endDate must be after startDate")
	}

	var tagIDs []uint
	if raw := c.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tagIDs); err != nil {
			return response.BadRequest(c, "tags must be a JSON array of tag IDs")
		}
	}
	if len(tagIDs) > maxTopicTags {
		return response.BadRequest(c, "A topic can have at most 5 tags")
	}

	var document []byte
	if fileHeader, err := c.FormFile("document"); err == nil && fileHeader != nil {
		result, err := pdfvalidation.ValidatePDFFile(fileHeader, pdfvalidation.TopicDocumentLimits)
		if err != nil {
			return response.InternalServerError(c, "Failed to read uploaded document")
		}
		if !result.Valid {
			return response.BadRequest(c, result.Error)
		}

		f, err := fileHeader.Open()
		if err != nil {
			return response.InternalServerError(c, "Failed to read uploaded document")
		}
		document, err = io.ReadAll(f)
		f.Close()
		if err != nil {
			return response.InternalServerError(c, "Failed to read uploaded document")
		}
	}

	topic, err := h.topics.Create(c.Context(), services.CreateTopicInput{
		Title:        title,
		Description:  description,
		Vacancies:    vacancies,
		StartDate:    startDate,
		EndDate:      endDate,
		Compensation: c.FormValue("compensation"),
		TagIDs:       tagIDs,
		Document:     document,
		CreatorID:    identity.UserID,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create topic")
	}

	return response.Created(c, fiber.Map{"topic_id": topic.ID})
}

// registeredTopic is the list entry for a faculty's own topics
type registeredTopic struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Vacancies      int       `json:"vacancies"`
	TotalVacancies int       `json:"total_vacancies"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status"`
	Applicants     int64     `json:"applicants"`
	Tags           []string  `json:"tags"`
}

// ListRegistered handles GET /api/faculty/getRegisteredTopics
func (h *TopicHandler) ListRegistered(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	var topics []model.Topic
	if err := h.db.WithContext(c.Context()).
		Where("creator_id = ?", identity.UserID).
		Order("created_at desc").
		Find(&topics).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch topics")
	}

	out := make([]registeredTopic, 0, len(topics))
	for _, t := range topics {
		entry := registeredTopic{
			ID:             t.ID,
			Title:          t.Title,
			Description:    t.Description,
			Vacancies:      t.Vacancies,
			TotalVacancies: t.TotalVacancies,
			StartDate:      t.StartDate,
			EndDate:        t.EndDate,
			Status:         string(t.Status),
			Tags:           []string{},
		}

		if err := h.db.WithContext(c.Context()).
			Model(&model.Participant{}).
			Where("topic_id = ?", t.ID).
			Count(&entry.Applicants).Error; err != nil {
			return response.InternalServerError(c, "Failed to fetch topics")
		}

		if err := h.db.WithContext(c.Context()).
			Model(&model.Tag{}).
			Joins("JOIN topic_tags ON topic_tags.tag_id = tags.id").
			Where("topic_tags.topic_id = ?", t.ID).
			Pluck("tags.name", &entry.Tags).Error; err != nil {
			return response.InternalServerError(c, "Failed to fetch topics")
		}

		out = append(out, entry)
	}

	return response.Success(c, out)
}

// GetTopic handles GET /api/faculty/topics/:topicId
func (h *TopicHandler) GetTopic(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	topicID, err := strconv.ParseUint(c.Params("topicId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid topic ID")
	}

	var topic model.Topic
	if err := h.db.WithContext(c.Context()).
		Where("id = ? AND creator_id = ?", topicID, identity.UserID).
		First(&topic).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Topic not found")
		}
		return response.InternalServerError(c, "Failed to fetch topic")
	}

	var tags []string
	if err := h.db.WithContext(c.Context()).
		Model(&model.Tag{}).
		Joins("JOIN topic_tags ON topic_tags.tag_id = tags.id").
		Where("topic_tags.topic_id = ?", topic.ID).
		Pluck("tags.name", &tags).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch topic")
	}

	return response.Success(c, fiber.Map{
		"id":              topic.ID,
		"title":           topic.Title,
		"description":     topic.Description,
		"vacancies":       topic.Vacancies,
		"total_vacancies": topic.TotalVacancies,
		"start_date":      topic.StartDate,
		"end_date":        topic.EndDate,
		"compensation":    topic.Compensation,
		"status":          topic.Status,
		"has_document":    topic.DocumentKey != "",
		"tags":            tags,
	})
}
