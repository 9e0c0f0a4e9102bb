package server

import (
	"errors"
	"time"

	"docmanager/internal/lifecycle"
	"docmanager/internal/models"
	"docmanager/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil in that case so Fiber's
// ErrorHandler does not overwrite the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultListLimit   = 50
	maxPaginationLimit = 100
	dateFilterLayout   = "2006-01-02"
)

// parseID extracts a route parameter by name as a positive uint. On
// failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseListInput reads the shared listing query parameters: status, date
// range, sort controls, and pagination.
func parseListInput(c *fiber.Ctx) (service.ListRequestsInput, error) {
	input := service.ListRequestsInput{
		Status:    c.Query("status"),
		Sort:      lifecycle.SortField(c.Query("sort")),
		Direction: lifecycle.Direction(c.Query("direction")),
		Limit:     c.QueryInt("limit", defaultListLimit),
		Offset:    c.QueryInt("offset", 0),
	}
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}
	if input.Limit > maxPaginationLimit {
		input.Limit = maxPaginationLimit
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	if from := c.Query("start_date"); from != "" {
		start, err := time.Parse(dateFilterLayout, from)
		if err != nil {
			return input, models.NewValidationError("start_date must be YYYY-MM-DD")
		}
		input.StartDate = &start
	}
	if to := c.Query("end_date"); to != "" {
		end, err := time.Parse(dateFilterLayout, to)
		if err != nil {
			return input, models.NewValidationError("end_date must be YYYY-MM-DD")
		}
		// Include the whole end day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		input.EndDate = &end
	}
	return input, nil
}

// statusUpdatePayload is the body of a PATCH on a request or unit.
type statusUpdatePayload struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

func parseStatusUpdate(c *fiber.Ctx) (statusUpdatePayload, error) {
	var payload statusUpdatePayload
	if err := c.BodyParser(&payload); err != nil {
		return payload, models.NewValidationError("Invalid request body")
	}
	if payload.Status == "" {
		return payload, models.NewValidationError("status is required")
	}
	return payload, nil
}
