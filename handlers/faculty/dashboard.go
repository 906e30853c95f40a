package faculty

import (
	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardHandler aggregates a faculty's topic and rating figures
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler creates a new faculty dashboard handler
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type monthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Get handles GET /api/faculty/dashboard
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	db := h.db.WithContext(c.Context())

	var totalTopics int64
	if err := db.Model(&model.Topic{}).
		Where("creator_id = ?", identity.UserID).
		Count(&totalTopics).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch dashboard")
	}

	var totalStudents int64
	if err := db.Model(&model.Participant{}).
		Joins("JOIN topics ON topics.id = participants.topic_id").
		Where("topics.creator_id = ?", identity.UserID).
		Distinct("participants.student_id").
		Count(&totalStudents).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch dashboard")
	}

	var avgRating float64
	if err := db.Model(&model.RatingLog{}).
		Where("rated_user_id = ?", identity.UserID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch dashboard")
	}

	var byStatus []statusCount
	if err := db.Model(&model.Topic{}).
		Select("status, COUNT(*) as count").
		Where("creator_id = ?", identity.UserID).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch dashboard")
	}

	var byMonth []monthlyCount
	if err := db.Model(&model.Topic{}).
		Select("DATE_FORMAT(created_at, '%Y-%m') as month, COUNT(*) as count").
		Where("creator_id = ?", identity.UserID).
		Group("month").
		Order("month asc").
		Scan(&byMonth).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch dashboard")
	}

	return response.Success(c, fiber.Map{
		"total_topics":     totalTopics,
		"total_students":   totalStudents,
		"average_rating":   avgRating,
		"topics_by_status": byStatus,
		"topics_by_month":  byMonth,
	})
}
