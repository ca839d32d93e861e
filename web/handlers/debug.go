package handlers

import (
	"github.com/Patricemapiye-ctrl/navira-forge/database"
	"github.com/gofiber/fiber/v2"
)

// GetSQLLogs returns the recent SQL query ring buffer.
func GetSQLLogs(c *fiber.Ctx) error {
	logs := database.SQLLogger.GetQueries()
	return c.JSON(fiber.Map{
		"queries": logs,
		"count":   len(logs),
	})
}

// ClearSQLLogs empties the SQL query ring buffer.
func ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLLogger.Clear()
	return c.JSON(fiber.Map{"status": "cleared"})
}
