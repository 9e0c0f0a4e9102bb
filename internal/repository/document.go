package repository

import (
	"context"
	"errors"
	"fmt"

	"docmanager/internal/models"
	"docmanager/internal/observability"

	"gorm.io/gorm"
)

// documentSortColumns whitelists the columns document listings may be
// ordered by. Raw query values never reach the query builder.
var documentSortColumns = map[string]string{
	"name":           "name",
	"document_type":  "document_type",
	"document_month": "document_month",
	"document_year":  "document_year",
	"subject":        "subject",
	"date_uploaded":  "date_uploaded",
}

// DocumentListFilter narrows a document listing. Search matches the
// keyword against every metadata column.
type DocumentListFilter struct {
	Search       string
	DocumentType string
	Month        string
	Year         string
	Sort         string
	Direction    string
	Limit        int
	Offset       int
}

// DocumentRepository defines the interface for document metadata
// operations. File content lives in blob storage.
type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	GetByID(ctx context.Context, id uint) (*models.Document, error)
	List(ctx context.Context, filter DocumentListFilter) ([]models.Document, error)
	Update(ctx context.Context, document *models.Document) error
	Delete(ctx context.Context, id uint) error
}

type documentRepository struct {
	db   *gorm.DB
	logs *observability.RepoLogger
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{
		db:   db,
		logs: observability.NewRepoLogger("documents"),
	}
}

func (r *documentRepository) Create(ctx context.Context, document *models.Document) error {
	defer observability.TrackQuery("create", "documents")()
	if err := r.db.WithContext(ctx).Create(document).Error; err != nil {
		r.logs.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	var document models.Document
	if err := r.db.WithContext(ctx).First(&document, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Document", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &document, nil
}

func (r *documentRepository) List(ctx context.Context, filter DocumentListFilter) ([]models.Document, error) {
	defer observability.TrackQuery("list", "documents")()

	sort := filter.Sort
	if sort == "" {
		sort = "date_uploaded"
	}
	column, ok := documentSortColumns[sort]
	if !ok {
		return nil, models.NewInvalidSortFieldError(sort)
	}
	dir := "DESC"
	switch filter.Direction {
	case "", "desc":
	case "asc":
		dir = "ASC"
	default:
		return nil, models.NewValidationError(fmt.Sprintf("Unknown sort direction %q", filter.Direction))
	}

	query := r.db.WithContext(ctx).Model(&models.Document{})

	if filter.Search != "" {
		keyword := "%" + filter.Search + "%"
		query = query.Where(
			"name LIKE ? OR document_type LIKE ? OR sent_from LIKE ? OR document_month LIKE ? OR document_year LIKE ? OR subject LIKE ? OR ocr_metadata LIKE ?",
			keyword, keyword, keyword, keyword, keyword, keyword, keyword,
		)
	}
	if filter.DocumentType != "" && filter.DocumentType != "All" {
		if filter.DocumentType == "Others" {
			query = query.Where("document_type NOT IN ?", []string{"Memorandum", "Special Orders"})
		} else {
			query = query.Where("document_type = ?", filter.DocumentType)
		}
	}
	if filter.Month != "" {
		query = query.Where("document_month = ?", filter.Month)
	}
	if filter.Year != "" {
		query = query.Where("document_year = ?", filter.Year)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var documents []models.Document
	if err := query.Order(column + " " + dir).Find(&documents).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return documents, nil
}

func (r *documentRepository) Update(ctx context.Context, document *models.Document) error {
	defer observability.TrackQuery("update", "documents")()
	if err := r.db.WithContext(ctx).Save(document).Error; err != nil {
		r.logs.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "documents")()
	result := r.db.WithContext(ctx).Delete(&models.Document{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Document", id)
	}
	return nil
}
