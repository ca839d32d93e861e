package handlers

import (
	"errors"

	"github.com/Patricemapiye-ctrl/navira-forge/auth"
	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/Patricemapiye-ctrl/navira-forge/web/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Auth handles registration and login. New accounts get the employee
// role; promoting to admin is a user-administration action.
type Auth struct {
	DB     *gorm.DB
	Tokens *auth.Manager
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register creates a new account with the employee role.
func (h *Auth) Register(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.Email == "" || len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and a password of at least 8 characters are required",
		})
	}

	var n int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
		return fail(c, err)
	}
	if n > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fail(c, err)
	}

	user := models.User{Email: in.Email, PasswordHash: hash}
	if in.FullName != "" {
		user.FullName = &in.FullName
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{UserID: user.ID, Role: models.RoleEmployee}).Error
	})
	if err != nil {
		return fail(c, err)
	}

	token, err := h.Tokens.GenerateToken(user.ID, string(models.RoleEmployee))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
		"role":  models.RoleEmployee,
	})
}

// Login verifies credentials and issues a token carrying the user's role.
func (h *Auth) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var user models.User
	err := h.DB.First(&user, "email = ?", in.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, in.Password)) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err != nil {
		return fail(c, err)
	}

	role := h.roleFor(user.ID)

	token, err := h.Tokens.GenerateToken(user.ID, string(role))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
		"role":  role,
	})
}

// Me returns the authenticated user's identity and current role. The role
// is read from the token, which is refreshed on login rather than cached
// indefinitely client-side.
func (h *Auth) Me(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
		"role": claims.Role,
	})
}

// roleFor returns the user's assigned role, defaulting to employee when
// no role row exists.
func (h *Auth) roleFor(userID uint) models.AppRole {
	var role models.UserRole
	if err := h.DB.First(&role, "user_id = ?", userID).Error; err != nil {
		return models.RoleEmployee
	}
	return role.Role
}
