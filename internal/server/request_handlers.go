package server

import (
	"docmanager/internal/middleware"
	"docmanager/internal/models"
	"docmanager/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateDocumentRequest files a new document request for the caller.
func (s *Server) CreateDocumentRequest(c *fiber.Ctx) error {
	var input service.CreateDocumentRequestInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	request, err := s.requestService.Create(c.UserContext(), middleware.CallerFrom(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// ListDocumentRequests returns the requests visible to the caller,
// unclaimed first.
func (s *Server) ListDocumentRequests(c *fiber.Ctx) error {
	input, err := parseListInput(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	requests, err := s.requestService.List(c.UserContext(), middleware.CallerFrom(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(requests)
}

// GetDocumentRequest returns one request.
func (s *Server) GetDocumentRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	request, err := s.requestService.Get(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(request)
}

// UpdateDocumentRequestStatus applies a lifecycle transition.
func (s *Server) UpdateDocumentRequestStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	payload, err := parseStatusUpdate(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	request, err := s.requestService.UpdateStatus(
		c.UserContext(),
		middleware.CallerFrom(c),
		id,
		models.DocumentRequestStatus(payload.Status),
		payload.Remarks,
	)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(request)
}

// CreateAuthorizationRequest files a new authorization request.
func (s *Server) CreateAuthorizationRequest(c *fiber.Ctx) error {
	var input service.CreateAuthorizationRequestInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	request, err := s.authorizationService.Create(c.UserContext(), middleware.CallerFrom(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// ListAuthorizationRequests returns the requests visible to the caller,
// pending first.
func (s *Server) ListAuthorizationRequests(c *fiber.Ctx) error {
	input, err := parseListInput(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	requests, err := s.authorizationService.List(c.UserContext(), middleware.CallerFrom(c), input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(requests)
}

// GetAuthorizationRequest returns one request.
func (s *Server) GetAuthorizationRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	request, err := s.authorizationService.Get(c.UserContext(), middleware.CallerFrom(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(request)
}

// UpdateAuthorizationRequestStatus applies a lifecycle transition to the
// request header.
func (s *Server) UpdateAuthorizationRequestStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	payload, err := parseStatusUpdate(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	request, err := s.authorizationService.UpdateStatus(
		c.UserContext(),
		middleware.CallerFrom(c),
		id,
		models.AuthorizationRequestStatus(payload.Status),
		payload.Remarks,
	)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(request)
}

// UpdateAuthorizationUnitStatus applies a lifecycle transition to a single
// unit. The body carries the parent request ID.
func (s *Server) UpdateAuthorizationUnitStatus(c *fiber.Ctx) error {
	unitID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var payload struct {
		RequestID uint   `json:"request_id"`
		Status    string `json:"status"`
		Remarks   string `json:"remarks"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if payload.RequestID == 0 {
		return models.RespondWithError(c, models.NewValidationError("request_id is required"))
	}
	if payload.Status == "" {
		return models.RespondWithError(c, models.NewValidationError("status is required"))
	}

	request, err := s.authorizationService.UpdateUnitStatus(
		c.UserContext(),
		middleware.CallerFrom(c),
		payload.RequestID,
		unitID,
		models.AuthorizationRequestStatus(payload.Status),
		payload.Remarks,
	)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(request)
}
