package handlers

import (
	"errors"

	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Users is the admin-only user administration surface: listing accounts
// with their roles and assigning roles by email.
type Users struct {
	DB *gorm.DB
}

type userView struct {
	models.User
	Role models.AppRole `json:"role"`
}

// List returns every account with its effective role.
func (h *Users) List(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.WithContext(c.Context()).Order("created_at ASC").Find(&users).Error; err != nil {
		return fail(c, err)
	}

	var roles []models.UserRole
	if err := h.DB.WithContext(c.Context()).Find(&roles).Error; err != nil {
		return fail(c, err)
	}

	byUser := make(map[uint]models.AppRole, len(roles))
	for _, r := range roles {
		byUser[r.UserID] = r.Role
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		role, ok := byUser[u.ID]
		if !ok {
			role = models.RoleEmployee
		}
		out = append(out, userView{User: u, Role: role})
	}

	return c.JSON(fiber.Map{"users": out, "count": len(out)})
}

// AssignRole sets a user's role, looked up by email. Unknown emails are a
// 404 so a typo never silently creates a grant.
func (h *Users) AssignRole(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	role := models.AppRole(in.Role)
	if !role.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Role must be admin or employee"})
	}

	var user models.User
	err := h.DB.WithContext(c.Context()).First(&user, "email = ?", in.Email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No account with that email"})
	}
	if err != nil {
		return fail(c, err)
	}

	err = h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserRole{}).Where("user_id = ?", user.ID).Update("role", role)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(&models.UserRole{UserID: user.ID, Role: role}).Error
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    role,
	})
}
