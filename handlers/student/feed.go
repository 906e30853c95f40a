package student

import (
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FeedHandler serves the student's personalized topic feed
type FeedHandler struct {
	db *gorm.DB
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(db *gorm.DB) *FeedHandler {
	return &FeedHandler{db: db}
}

// feedEntry is one recommended topic in the feed
type feedEntry struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Vacancies    int       `json:"vacancies"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Compensation string    `json:"compensation"`
	Professor    string    `json:"professor"`
	Tags         []string  `json:"tags"`
}

// Get handles GET /api/student/getFeed.
// The feed is inactive topics sharing at least one tag with the student's
// interests, excluding topics the student has already applied to.
func (h *FeedHandler) Get(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	db := h.db.WithContext(c.Context())

	var tagIDs []uint
	if err := db.Model(&model.UserTag{}).
		Where("user_id = ?", identity.UserID).
		Pluck("tag_id", &tagIDs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch feed")
	}

	query := db.Model(&model.Topic{}).
		Where("topics.status = ?", model.TopicStatusInactive).
		Where("topics.id NOT IN (?)",
			db.Model(&model.Participant{}).
				Select("topic_id").
				Where("student_id = ?", identity.UserID))

	if len(tagIDs) > 0 {
		query = query.
			Joins("JOIN topic_tags ON topic_tags.topic_id = topics.id").
			Where("topic_tags.tag_id IN ?", tagIDs).
			Distinct("topics.*")
	}

	var topics []model.Topic
	if err := query.Order("topics.created_at desc").Find(&topics).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch feed")
	}

	out := make([]feedEntry, 0, len(topics))
	for _, t := range topics {
		entry := feedEntry{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			Vacancies:    t.Vacancies,
			StartDate:    t.StartDate,
			EndDate:      t.EndDate,
			Compensation: t.Compensation,
			Tags:         []string{},
		}

		var creator model.User
		if err := db.Select("first_name", "last_name").
			First(&creator, t.CreatorID).Error; err == nil {
			entry.Professor = creator.FirstName + " " + creator.LastName
		}

		if err := db.Model(&model.Tag{}).
			Joins("JOIN topic_tags ON topic_tags.tag_id = tags.id").
			Where("topic_tags.topic_id = ?", t.ID).
			Pluck("tags.name", &entry.Tags).Error; err != nil {
			return response.InternalServerError(c, "Failed to fetch feed")
		}

		out = append(out, entry)
	}

	return response.Success(c, out)
}
