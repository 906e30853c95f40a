package profile

import (
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/collabity/collabity-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProfileHandler serves user profiles. Reading a profile requires a valid
// token; updating one requires the profile to be the caller's own.
type ProfileHandler struct {
	db   *gorm.DB
	auth *middleware.AuthMiddleware
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(db *gorm.DB, auth *middleware.AuthMiddleware) *ProfileHandler {
	return &ProfileHandler{
		db:   db,
		auth: auth,
	}
}

// Get handles GET /api/profile/:username
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	username := c.Params("username")

	var user model.User
	if err := h.db.WithContext(c.Context()).
		Preload("FacultyDetail").
		Preload("StudentDetail").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	var tags []model.Tag
	if err := h.db.WithContext(c.Context()).
		Model(&model.Tag{}).
		Joins("JOIN user_tags ON user_tags.tag_id = tags.id").
		Where("user_tags.user_id = ?", user.ID).
		Find(&tags).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	return response.Success(c, fiber.Map{
		"user": user,
		"tags": tags,
	})
}

// UpdateRequest carries the editable profile fields. Role, email, username
// and the gateway UID are not editable here.
type UpdateRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	PhoneNumber  *string `json:"phone_number,omitempty"`
	Address      *string `json:"address,omitempty"`
	LinkedinLink *string `json:"linkedin_link,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD

	Tags *[]uint `json:"tags,omitempty"`

	FacultyDetail *model.FacultyDetail `json:"faculty_detail,omitempty"`
	StudentDetail *model.StudentDetail `json:"student_detail,omitempty"`
}

// Update handles PUT /api/profile/:username
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, "No token provided")
	}

	username := c.Params("username")
	if username != identity.Username {
		return response.Forbidden(c, "You can only update your own profile")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var user model.User
	if err := h.db.WithContext(c.Context()).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = validation.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = validation.SanitizeString(*req.LastName)
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.LinkedinLink != nil {
		updates["linkedin_link"] = *req.LinkedinLink
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return response.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
		}
		updates["date_of_birth"] = dob
	}

	err := h.db.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Tags != nil {
			if err := tx.Where("user_id = ?", user.ID).Delete(&model.UserTag{}).Error; err != nil {
				return err
			}
			for _, tagID := range *req.Tags {
				if err := tx.Create(&model.UserTag{UserID: user.ID, TagID: tagID}).Error; err != nil {
					return err
				}
			}
		}

		if req.FacultyDetail != nil && user.Role == model.RoleFaculty {
			detail := *req.FacultyDetail
			detail.UserID = user.ID
			detail.ID = 0
			var existing model.FacultyDetail
			if err := tx.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
				detail.ID = existing.ID
			}
			if err := tx.Save(&detail).Error; err != nil {
				return err
			}
		}

		if req.StudentDetail != nil && user.Role == model.RoleStudent {
			detail := *req.StudentDetail
			detail.UserID = user.ID
			detail.ID = 0
			var existing model.StudentDetail
			if err := tx.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
				detail.ID = existing.ID
			}
			if err := tx.Save(&detail).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	h.auth.InvalidateIdentity(c, identity.UID)

	return response.SuccessWithMessage(c, "Profile updated", nil)
}
