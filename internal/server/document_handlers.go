package server

import (
	"strconv"

	"docmanager/internal/middleware"
	"docmanager/internal/models"
	"docmanager/internal/repository"
	"docmanager/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadDocument stores a new document: multipart file plus metadata form
// fields.
func (s *Server) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("A file is required"))
	}

	pages, _ := strconv.Atoi(c.FormValue("number_pages", "0"))
	input := service.UploadDocumentInput{
		Name:          c.FormValue("name"),
		DocumentType:  c.FormValue("document_type"),
		SentFrom:      c.FormValue("sent_from"),
		DocumentMonth: c.FormValue("document_month"),
		DocumentYear:  c.FormValue("document_year"),
		Subject:       c.FormValue("subject"),
		NumberPages:   pages,
		OCRMetadata:   c.FormValue("ocr_metadata"),
		Filename:      fileHeader.Filename,
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("Unreadable upload"))
	}
	defer file.Close()

	document, err := s.documentService.Upload(c.UserContext(), middleware.CallerFrom(c), input, file)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(document)
}

// ListDocuments searches the archive. All authenticated roles may browse.
func (s *Server) ListDocuments(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	documents, err := s.documentService.Search(c.UserContext(), repository.DocumentListFilter{
		Search:       c.Query("search"),
		DocumentType: c.Query("document_type"),
		Month:        c.Query("month"),
		Year:         c.Query("year"),
		Sort:         c.Query("sort"),
		Direction:    c.Query("direction"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(documents)
}

// GetDocument returns one document's metadata.
func (s *Server) GetDocument(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	document, err := s.documentService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(document)
}

// DownloadDocument streams the stored file.
func (s *Server) DownloadDocument(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	rc, document, err := s.documentService.OpenFile(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+document.Name+`"`)
	return c.SendStream(rc)
}

// UpdateDocument edits a document's metadata.
func (s *Server) UpdateDocument(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var input service.UploadDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	document, err := s.documentService.Update(c.UserContext(), middleware.CallerFrom(c), id, input)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(document)
}

// DeleteDocument removes a document and its stored file.
func (s *Server) DeleteDocument(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.documentService.Delete(c.UserContext(), middleware.CallerFrom(c), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
