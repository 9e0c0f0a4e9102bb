package repository

import (
	"context"
	"fmt"
	"testing"

	"docmanager/internal/lifecycle"
	"docmanager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.DocumentRequest{},
		&models.DocumentRequestUnit{},
		&models.AuthorizationRequest{},
		&models.AuthorizationRequestUnit{},
		&models.Notification{},
	))
	return db
}

func seedRequester(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Email: "client@example.com", FullName: "Pat Client", PasswordHash: "x", Role: models.RoleClient}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedDocument(t *testing.T, db *gorm.DB) *models.Document {
	t.Helper()
	doc := &models.Document{Name: "Memo", DocumentType: "Memorandum", NumberPages: 1, FilePath: "documents/m/x.pdf"}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func TestDocumentRequestCreateAndGetPreloads(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRequestRepository(db)
	ctx := context.Background()
	requester := seedRequester(t, db)
	doc := seedDocument(t, db)

	request := &models.DocumentRequest{
		RequesterID: requester.ID,
		College:     "Engineering",
		Type:        models.DocumentRequestTypeHardcopy,
		Purpose:     "Accreditation",
		Status:      models.DocumentRequestStatusUnclaimed,
		Units:       []models.DocumentRequestUnit{{DocumentID: doc.ID, Copies: 2}},
	}
	require.NoError(t, repo.Create(ctx, request))
	require.NotZero(t, request.ID)

	loaded, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Requester)
	assert.Equal(t, "client@example.com", loaded.Requester.Email)
	require.Len(t, loaded.Units, 1)
	require.NotNil(t, loaded.Units[0].Document)
	assert.Equal(t, "Memo", loaded.Units[0].Document.Name)
	assert.Equal(t, 0, loaded.Version)

	_, err = repo.GetByID(ctx, 9999)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestDocumentRequestListUnclaimedFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRequestRepository(db)
	ctx := context.Background()
	requester := seedRequester(t, db)

	statuses := []models.DocumentRequestStatus{
		models.DocumentRequestStatusClaimed,
		models.DocumentRequestStatusUnclaimed,
		models.DocumentRequestStatusDenied,
		models.DocumentRequestStatusUnclaimed,
	}
	for i, status := range statuses {
		require.NoError(t, db.Create(&models.DocumentRequest{
			RequesterID: requester.ID,
			College:     fmt.Sprintf("College %d", i),
			Type:        models.DocumentRequestTypeHardcopy,
			Purpose:     "Records",
			Status:      status,
		}).Error)
	}

	for _, direction := range []lifecycle.Direction{lifecycle.Ascending, lifecycle.Descending} {
		listed, err := repo.List(ctx, DocumentRequestListFilter{
			Sort:      lifecycle.SortByCollege,
			Direction: direction,
		})
		require.NoError(t, err)
		require.Len(t, listed, 4)
		assert.Equal(t, models.DocumentRequestStatusUnclaimed, listed[0].Status)
		assert.Equal(t, models.DocumentRequestStatusUnclaimed, listed[1].Status)
	}

	_, err := repo.List(ctx, DocumentRequestListFilter{Sort: "drop table"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeInvalidSortField, appErr.Code)
}

func TestDocumentRequestListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRequestRepository(db)
	ctx := context.Background()
	requester := seedRequester(t, db)
	other := &models.User{Email: "other@example.com", FullName: "Other", PasswordHash: "x", Role: models.RoleClient}
	require.NoError(t, db.Create(other).Error)

	for _, owner := range []uint{requester.ID, other.ID} {
		require.NoError(t, db.Create(&models.DocumentRequest{
			RequesterID: owner,
			College:     "Engineering",
			Type:        models.DocumentRequestTypeHardcopy,
			Purpose:     "Records",
			Status:      models.DocumentRequestStatusUnclaimed,
		}).Error)
	}

	mine, err := repo.List(ctx, DocumentRequestListFilter{RequesterID: &requester.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, requester.ID, mine[0].RequesterID)

	claimed := models.DocumentRequestStatusClaimed
	none, err := repo.List(ctx, DocumentRequestListFilter{Status: &claimed})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateStatusVersionedGuards(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRequestRepository(db)
	ctx := context.Background()
	requester := seedRequester(t, db)

	request := &models.DocumentRequest{
		RequesterID: requester.ID,
		College:     "Engineering",
		Type:        models.DocumentRequestTypeHardcopy,
		Purpose:     "Records",
		Status:      models.DocumentRequestStatusUnclaimed,
	}
	require.NoError(t, db.Create(request).Error)

	// First adjudicator wins.
	require.NoError(t, repo.UpdateStatusVersioned(ctx, request.ID,
		models.DocumentRequestStatusUnclaimed, 0,
		models.DocumentRequestStatusDenied, "incomplete"))

	loaded, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentRequestStatusDenied, loaded.Status)
	assert.Equal(t, "incomplete", loaded.Remarks)
	assert.Equal(t, 1, loaded.Version)

	// Second adjudicator raced on the same stale snapshot and loses.
	err = repo.UpdateStatusVersioned(ctx, request.ID,
		models.DocumentRequestStatusUnclaimed, 0,
		models.DocumentRequestStatusClaimed, "")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConcurrentModification, appErr.Code)

	// The losing write changed nothing.
	loaded, err = repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentRequestStatusDenied, loaded.Status)
	assert.Equal(t, 1, loaded.Version)
}

func TestAuthorizationUnitVersionedUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuthorizationRequestRepository(db)
	ctx := context.Background()
	requester := seedRequester(t, db)
	doc := seedDocument(t, db)

	request := &models.AuthorizationRequest{
		RequesterID: requester.ID,
		College:     "Engineering",
		Purpose:     "Records check",
		Status:      models.AuthorizationRequestStatusPending,
		Units: []models.AuthorizationRequestUnit{
			{DocumentID: doc.ID, Copies: 1, Status: models.AuthorizationRequestStatusPending},
		},
	}
	require.NoError(t, repo.Create(ctx, request))
	unitID := request.Units[0].ID
	require.NotZero(t, unitID)

	require.NoError(t, repo.UpdateUnitStatusVersioned(ctx, unitID,
		models.AuthorizationRequestStatusPending, 0,
		models.AuthorizationRequestStatusApproved, ""))

	unit, err := repo.GetUnitByID(ctx, unitID)
	require.NoError(t, err)
	assert.Equal(t, models.AuthorizationRequestStatusApproved, unit.Status)
	assert.Equal(t, 1, unit.Version)

	// The header keeps its own status; unit adjudication does not cascade.
	header, err := repo.GetByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AuthorizationRequestStatusPending, header.Status)
}
