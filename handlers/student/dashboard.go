package student

import (
	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardHandler aggregates a student's application figures
type DashboardHandler struct {
	db *gorm.DB
}

type monthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// NewDashboardHandler creates a new student dashboard handler
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Get handles GET /api/student/dashboard
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	db := h.db.WithContext(c.Context())

	counts := map[string]int64{}
	for _, status := range []model.ParticipantStatus{
		model.ParticipantStatusApplied,
		model.ParticipantStatusAccepted,
		model.ParticipantStatusRejected,
		model.ParticipantStatusInProgress,
		model.ParticipantStatusCompleted,
	} {
		var n int64
		if err := db.Model(&model.Participant{}).
			Where("student_id = ? AND status = ?", identity.UserID, status).
			Count(&n).Error; err != nil {
			return response.InternalServerError(c, "Failed to fetch dashboard")
		}
		counts[string(status)] = n
	}

	var avgRating float64
	if err := db.Model(&model.RatingLog{}).
		Where("rated_user_id = ?", identity.UserID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch dashboard")
	}

	var byMonth []monthlyCount
	if err := db.Model(&model.Participant{}).
		Select("DATE_FORMAT(application_date, '%Y-%m') as month, COUNT(*) as count").
		Where("student_id = ?", identity.UserID).
		Group("month").
		Order("month asc").
		Scan(&byMonth).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch dashboard")
	}

	return response.Success(c, fiber.Map{
		"applications_by_status": counts,
		"average_rating":         avgRating,
		"applications_by_month":  byMonth,
	})
}
