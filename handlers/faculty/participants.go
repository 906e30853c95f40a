package faculty

import (
	"strconv"
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/services"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ParticipantHandler serves application review for a faculty's own topics
type ParticipantHandler struct {
	db           *gorm.DB
	participants *services.ParticipantService
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(db *gorm.DB, participants *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		db:           db,
		participants: participants,
	}
}

// participantRow joins the application with the applicant's profile fields
type participantRow struct {
	StudentID       uint      `json:"student_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Status          string    `json:"status"`
	ApplicationDate time.Time `json:"application_date"`
}

// ownsTopic checks the topic exists and belongs to the caller
func (h *ParticipantHandler) ownsTopic(c *fiber.Ctx, topicID uint, facultyID uint) (bool, error) {
	var count int64
	err := h.db.WithContext(c.Context()).
		Model(&model.Topic{}).
		Where("id = ? AND creator_id = ?", topicID, facultyID).
		Count(&count).Error
	return count > 0, err
}

// List handles GET /api/faculty/participants/:topicId
func (h *ParticipantHandler) List(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	topicID, err := strconv.ParseUint(c.Params("topicId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid topic ID")
	}

	owns, err := h.ownsTopic(c, uint(topicID), identity.UserID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch participants")
	}
	if !owns {
		return response.NotFound(c, "Topic not found")
	}

	var rows []participantRow
	if err := h.db.WithContext(c.Context()).
		Model(&model.Participant{}).
		Select("participants.student_id, users.username, users.first_name, users.last_name, users.email, participants.status, participants.application_date").
		Joins("JOIN users ON users.id = participants.student_id").
		Where("participants.topic_id = ?", topicID).
		Order("participants.application_date asc").
		Scan(&rows).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch participants")
	}

	return response.Success(c, rows)
}

// DecisionRequest carries a faculty accept/reject decision
type DecisionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Decide handles PUT /api/faculty/participants/:topicId/:studentId
func (h *ParticipantHandler) Decide(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	topicID, err := strconv.ParseUint(c.Params("topicId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid topic ID")
	}
	studentID, err := strconv.ParseUint(c.Params("studentId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	owns, err := h.ownsTopic(c, uint(topicID), identity.UserID)
	if err != nil {
		return response.InternalServerError(c, "Failed to update participant")
	}
	if !owns {
		return response.NotFound(c, "Topic not found")
	}

	reason := req.Reason
	if reason == "" {
		reason = "Status updated by faculty"
	}

	changed, err := h.participants.Decide(c.Context(),
		uint(topicID), uint(studentID),
		model.ParticipantStatus(req.Status),
		identity.UserID, reason)
	if err != nil {
		switch err {
		case services.ErrInvalidDecision:
			return response.BadRequest(c, "status must be accepted or rejected")
		case services.ErrParticipantNotFound:
			return response.NotFound(c, "Participant not found")
		case services.ErrOverCapacity:
			return response.BadRequest(c, "All vacancies are already filled")
		default:
			return response.InternalServerError(c, "Failed to update participant")
		}
	}

	if !changed {
		return response.SuccessWithMessage(c, "No change in status. Skipped update.", nil)
	}

	return response.SuccessWithMessage(c, "Participant status updated", nil)
}
