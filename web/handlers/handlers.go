// Package handlers contains the Fiber HTTP handlers. Handlers parse and
// validate the request, call into the domain services, and map domain
// errors onto JSON error responses; no business rules live here.
package handlers

import (
	"errors"

	"github.com/Patricemapiye-ctrl/navira-forge/inventory"
	"github.com/Patricemapiye-ctrl/navira-forge/returns"
	"github.com/Patricemapiye-ctrl/navira-forge/sales"
	"github.com/gofiber/fiber/v2"
)

// errInvalidID marks a route parameter that is not a positive integer.
var errInvalidID = errors.New("invalid id parameter")

// fail writes the standard JSON error envelope with the status code that
// matches the domain error.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// statusFor maps domain errors to HTTP status codes. Validation failures
// are 400, stock and state-machine conflicts are 409, lookups are 404,
// everything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidID),
		errors.Is(err, sales.ErrEmptyCart),
		errors.Is(err, sales.ErrInvalidLine),
		errors.Is(err, sales.ErrInvalidPayment),
		errors.Is(err, sales.ErrUnknownItem),
		errors.Is(err, returns.ErrInvalidRefund),
		errors.Is(err, inventory.ErrNegativeQuantity),
		errors.Is(err, inventory.ErrDuplicateCode):
		return fiber.StatusBadRequest
	case errors.Is(err, sales.ErrInsufficientStock),
		errors.Is(err, sales.ErrAlreadyHandled),
		errors.Is(err, sales.ErrNotOnlineOrder),
		errors.Is(err, returns.ErrAlreadyProcessed),
		errors.Is(err, returns.ErrNotApproved):
		return fiber.StatusConflict
	case errors.Is(err, sales.ErrSaleNotFound),
		errors.Is(err, returns.ErrSaleNotFound),
		errors.Is(err, returns.ErrReturnNotFound),
		errors.Is(err, inventory.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}
