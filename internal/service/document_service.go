package service

import (
	"context"
	"io"
	"strings"

	"docmanager/internal/models"
	"docmanager/internal/repository"
	"docmanager/internal/storage"
)

// DocumentService manages the document archive: uploads, metadata edits,
// search, and file retrieval.
type DocumentService struct {
	documents repository.DocumentRepository
	blobs     storage.BlobStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(documents repository.DocumentRepository, blobs storage.BlobStore) *DocumentService {
	return &DocumentService{
		documents: documents,
		blobs:     blobs,
	}
}

// UploadDocumentInput is the metadata accompanying an uploaded file.
type UploadDocumentInput struct {
	Name          string `json:"name"`
	DocumentType  string `json:"document_type"`
	SentFrom      string `json:"sent_from"`
	DocumentMonth string `json:"document_month"`
	DocumentYear  string `json:"document_year"`
	Subject       string `json:"subject"`
	NumberPages   int    `json:"number_pages"`
	OCRMetadata   string `json:"ocr_metadata"`
	Filename      string `json:"-"`
}

// Upload stores the file and its metadata row. Only staff-level roles may
// add to the archive.
func (s *DocumentService) Upload(ctx context.Context, caller models.Caller, input UploadDocumentInput, file io.Reader) (*models.Document, error) {
	if !caller.Role.Can(models.CapabilityViewAll) {
		return nil, models.NewUnauthorizedError("Role is not allowed to upload documents")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, models.NewValidationError("Document name is required")
	}
	if strings.TrimSpace(input.DocumentType) == "" {
		return nil, models.NewValidationError("Document type is required")
	}
	if file == nil {
		return nil, models.NewValidationError("A file is required")
	}

	key, err := s.blobs.Save(ctx, file, input.DocumentType, input.DocumentYear, input.Filename)
	if err != nil {
		return nil, err
	}

	document := &models.Document{
		Name:          strings.TrimSpace(input.Name),
		DocumentType:  strings.TrimSpace(input.DocumentType),
		SentFrom:      strings.TrimSpace(input.SentFrom),
		DocumentMonth: strings.TrimSpace(input.DocumentMonth),
		DocumentYear:  strings.TrimSpace(input.DocumentYear),
		Subject:       strings.TrimSpace(input.Subject),
		NumberPages:   input.NumberPages,
		OCRMetadata:   input.OCRMetadata,
		FilePath:      key,
	}
	if err := s.documents.Create(ctx, document); err != nil {
		// Keep the store consistent with the metadata table.
		_ = s.blobs.Delete(ctx, key)
		return nil, err
	}
	return document, nil
}

// Get returns one document's metadata.
func (s *DocumentService) Get(ctx context.Context, id uint) (*models.Document, error) {
	return s.documents.GetByID(ctx, id)
}

// OpenFile returns the stored file for a document. The caller owns the
// returned reader.
func (s *DocumentService) OpenFile(ctx context.Context, id uint) (io.ReadCloser, *models.Document, error) {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, document.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return rc, document, nil
}

// Search lists documents matching the filter. Every authenticated role may
// browse the archive; requests are how clients obtain copies.
func (s *DocumentService) Search(ctx context.Context, filter repository.DocumentListFilter) ([]models.Document, error) {
	return s.documents.List(ctx, filter)
}

// Update edits a document's metadata.
func (s *DocumentService) Update(ctx context.Context, caller models.Caller, id uint, input UploadDocumentInput) (*models.Document, error) {
	if !caller.Role.Can(models.CapabilityViewAll) {
		return nil, models.NewUnauthorizedError("Role is not allowed to edit documents")
	}
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		document.Name = strings.TrimSpace(input.Name)
	}
	if input.DocumentType != "" {
		document.DocumentType = strings.TrimSpace(input.DocumentType)
	}
	if input.SentFrom != "" {
		document.SentFrom = strings.TrimSpace(input.SentFrom)
	}
	if input.DocumentMonth != "" {
		document.DocumentMonth = strings.TrimSpace(input.DocumentMonth)
	}
	if input.DocumentYear != "" {
		document.DocumentYear = strings.TrimSpace(input.DocumentYear)
	}
	if input.Subject != "" {
		document.Subject = strings.TrimSpace(input.Subject)
	}
	if input.NumberPages > 0 {
		document.NumberPages = input.NumberPages
	}
	if input.OCRMetadata != "" {
		document.OCRMetadata = input.OCRMetadata
	}

	if err := s.documents.Update(ctx, document); err != nil {
		return nil, err
	}
	return document, nil
}

// Delete removes a document's metadata and stored file.
func (s *DocumentService) Delete(ctx context.Context, caller models.Caller, id uint) error {
	if caller.Role != models.RoleAdmin && caller.Role != models.RoleHead {
		return models.NewUnauthorizedError("Role is not allowed to delete documents")
	}
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return err
	}
	return s.blobs.Delete(ctx, document.FilePath)
}
