package auth

import (
	"time"

	"github.com/collabity/collabity-api/model"
	"github.com/collabity/collabity-api/utils/middleware"
	"github.com/collabity/collabity-api/utils/response"
	"github.com/collabity/collabity-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles registration and role resolution. Token issuance is the
// identity gateway's job; these endpoints only manage the persisted user row.
type AuthHandler struct {
	db        *gorm.DB
	auth      *middleware.AuthMiddleware
	validator *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, auth *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		db:        db,
		auth:      auth,
		validator: validation.NewValidator(),
	}
}

// RegisterRequest represents a user registration request, submitted after
// the client has completed identity-gateway signup
type RegisterRequest struct {
	FirebaseUID  string  `json:"firebase_uid" validate:"required"`
	Username     string  `json:"username" validate:"required,min=3,max=30"`
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Role         string  `json:"role" validate:"required,oneof=student faculty admin"`
	PhoneNumber  string  `json:"phone_number,omitempty"`
	Address      string  `json:"address,omitempty"`
	LinkedinLink string  `json:"linkedin_link,omitempty"`
	Gender       string  `json:"gender,omitempty"`
	DateOfBirth  string  `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Rating       float64 `json:"rating,omitempty"`
	Raters       int     `json:"raters,omitempty"`
	Approved     bool    `json:"approved,omitempty"`
	Tags         []uint  `json:"tags,omitempty"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		return response.BadRequest(c, msg)
	}

	var existing model.User
	if err := h.db.Where("firebase_uid = ?", req.FirebaseUID).First(&existing).Error; err == nil {
		return response.Conflict(c, "User already exists")
	}

	user := model.User{
		FirebaseUID:  req.FirebaseUID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Role:         req.Role,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		LinkedinLink: req.LinkedinLink,
		Gender:       req.Gender,
		Rating:       req.Rating,
		Raters:       req.Raters,
		Approved:     req.Approved,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return response.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
		}
		user.DateOfBirth = &dob
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		for _, tagID := range req.Tags {
			if err := tx.Create(&model.UserTag{UserID: user.ID, TagID: tagID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	h.auth.InvalidateIdentity(c, req.FirebaseUID)

	return response.Created(c, fiber.Map{"user_id": user.ID})
}

// CheckRole handles GET /api/auth/checkRole?firebase_uid=
func (h *AuthHandler) CheckRole(c *fiber.Ctx) error {
	uid := c.Query("firebase_uid")
	if uid == "" {
		return response.BadRequest(c, "firebase_uid is required as a query parameter")
	}

	var user model.User
	if err := h.db.Where("firebase_uid = ?", uid).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch role")
	}

	return response.Success(c, fiber.Map{"role": user.Role})
}

// LoginRequest resolves role and username for a UID at login time
type LoginRequest struct {
	FirebaseUID string `json:"firebase_uid" validate:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.FirebaseUID == "" {
		return response.BadRequest(c, "firebase_uid is required")
	}

	var user model.User
	if err := h.db.Where("firebase_uid = ?", req.FirebaseUID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, fiber.Map{
		"role":     user.Role,
		"username": user.Username,
	})
}
