package service

import (
	"context"
	"testing"

	"docmanager/internal/lifecycle"
	"docmanager/internal/models"
	"docmanager/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentRequestService(requests *stubDocumentRequestRepo, documents *stubDocumentRepo) (*DocumentRequestService, *recordingDispatcher) {
	dispatcher := &recordingDispatcher{}
	if documents == nil {
		documents = &stubDocumentRepo{}
	}
	return NewDocumentRequestService(requests, documents, dispatcher), dispatcher
}

func TestCreateDocumentRequestValidation(t *testing.T) {
	t.Parallel()

	client := models.Caller{ID: 7, Role: models.RoleClient}
	valid := CreateDocumentRequestInput{
		College: "Engineering",
		Type:    models.DocumentRequestTypeHardcopy,
		Purpose: "Accreditation",
		Units:   []RequestUnitInput{{DocumentID: 1, Copies: 2}},
	}

	tests := []struct {
		name     string
		caller   models.Caller
		mutate   func(in *CreateDocumentRequestInput)
		wantCode string
	}{
		{
			name:     "staff cannot submit",
			caller:   models.Caller{ID: 2, Role: models.RoleStaff},
			mutate:   func(*CreateDocumentRequestInput) {},
			wantCode: models.CodeUnauthorized,
		},
		{
			name:     "empty units rejected",
			caller:   client,
			mutate:   func(in *CreateDocumentRequestInput) { in.Units = nil },
			wantCode: models.CodeEmptyUnits,
		},
		{
			name:     "zero copies rejected",
			caller:   client,
			mutate:   func(in *CreateDocumentRequestInput) { in.Units[0].Copies = 0 },
			wantCode: models.CodeValidation,
		},
		{
			name:     "softcopy not supported",
			caller:   client,
			mutate:   func(in *CreateDocumentRequestInput) { in.Type = models.DocumentRequestTypeSoftcopy },
			wantCode: models.CodeUnsupportedType,
		},
		{
			name:     "unknown type rejected",
			caller:   client,
			mutate:   func(in *CreateDocumentRequestInput) { in.Type = "carrier_pigeon" },
			wantCode: models.CodeUnsupportedType,
		},
		{
			name:     "missing purpose rejected",
			caller:   client,
			mutate:   func(in *CreateDocumentRequestInput) { in.Purpose = "  " },
			wantCode: models.CodeValidation,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, dispatcher := newDocumentRequestService(&stubDocumentRequestRepo{}, nil)
			input := valid
			input.Units = append([]RequestUnitInput(nil), valid.Units...)
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), tt.caller, input)
			assertCode(t, err, tt.wantCode)
			assert.Empty(t, dispatcher.dispatched)
		})
	}
}

func TestCreateDocumentRequestUnknownDocument(t *testing.T) {
	t.Parallel()

	documents := &stubDocumentRepo{
		getByIDFn: func(_ context.Context, id uint) (*models.Document, error) {
			return nil, models.NewNotFoundError("Document", id)
		},
	}
	svc, _ := newDocumentRequestService(&stubDocumentRequestRepo{}, documents)

	_, err := svc.Create(context.Background(), models.Caller{ID: 7, Role: models.RoleClient}, CreateDocumentRequestInput{
		College: "Engineering",
		Type:    models.DocumentRequestTypeHardcopy,
		Purpose: "Accreditation",
		Units:   []RequestUnitInput{{DocumentID: 404, Copies: 1}},
	})
	assertCode(t, err, models.CodeNotFound)
}

func TestCreateDocumentRequestAnnouncesToHead(t *testing.T) {
	t.Parallel()

	var stored *models.DocumentRequest
	requests := &stubDocumentRequestRepo{
		createFn: func(_ context.Context, request *models.DocumentRequest) error {
			request.ID = 11
			stored = request
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.DocumentRequest, error) {
			return stored, nil
		},
	}
	svc, dispatcher := newDocumentRequestService(requests, nil)

	created, err := svc.Create(context.Background(), models.Caller{ID: 7, Role: models.RoleClient}, CreateDocumentRequestInput{
		College: "Engineering",
		Type:    models.DocumentRequestTypeHardcopy,
		Purpose: "Accreditation",
		Units:   []RequestUnitInput{{DocumentID: 1, Copies: 2}},
	})
	require.NoError(t, err)

	// The requester comes from the verified caller, never the payload.
	assert.Equal(t, uint(7), created.RequesterID)
	assert.Equal(t, models.DocumentRequestStatusUnclaimed, created.Status)

	effs := dispatcher.all()
	require.Len(t, effs, 1)
	notif, ok := effs[0].(lifecycle.NotificationEffect)
	require.True(t, ok)
	assert.Equal(t, models.AudienceHead, notif.Audience)
	assert.Contains(t, notif.Content, "ID:11")
}

func TestUpdateStatusDenyRequiresRemarksAndNotifies(t *testing.T) {
	t.Parallel()

	request := &models.DocumentRequest{
		ID:          3,
		RequesterID: 7,
		Requester:   &models.User{ID: 7, Email: "client@example.com"},
		Status:      models.DocumentRequestStatusApproved,
		Version:     2,
	}
	var committed bool
	requests := &stubDocumentRequestRepo{
		getByIDFn: func(_ context.Context, id uint) (*models.DocumentRequest, error) {
			return request, nil
		},
		updateStatusFn: func(_ context.Context, id uint, fromStatus models.DocumentRequestStatus, fromVersion int, toStatus models.DocumentRequestStatus, remarks string) error {
			committed = true
			assert.Equal(t, uint(3), id)
			assert.Equal(t, models.DocumentRequestStatusApproved, fromStatus)
			assert.Equal(t, 2, fromVersion)
			assert.Equal(t, models.DocumentRequestStatusUnclaimed, toStatus)
			return nil
		},
	}
	svc, dispatcher := newDocumentRequestService(requests, nil)
	head := models.Caller{ID: 1, Role: models.RoleHead}

	_, err := svc.UpdateStatus(context.Background(), head, 3, models.DocumentRequestStatusUnclaimed, "")
	require.NoError(t, err)
	assert.True(t, committed)
	// approved -> unclaimed is a silent repair transition.
	assert.Empty(t, dispatcher.all())
}

func TestUpdateStatusClientCannotAdjudicate(t *testing.T) {
	t.Parallel()

	requests := &stubDocumentRequestRepo{
		getByIDFn: func(_ context.Context, id uint) (*models.DocumentRequest, error) {
			return &models.DocumentRequest{ID: id, Status: models.DocumentRequestStatusUnclaimed}, nil
		},
	}
	svc, dispatcher := newDocumentRequestService(requests, nil)

	_, err := svc.UpdateStatus(context.Background(), models.Caller{ID: 7, Role: models.RoleClient}, 3, models.DocumentRequestStatusClaimed, "")
	assertCode(t, err, models.CodeUnauthorized)
	assert.Empty(t, dispatcher.all())
}

func TestUpdateStatusConcurrentModification(t *testing.T) {
	t.Parallel()

	requests := &stubDocumentRequestRepo{
		getByIDFn: func(_ context.Context, id uint) (*models.DocumentRequest, error) {
			return &models.DocumentRequest{ID: id, Status: models.DocumentRequestStatusUnclaimed, Version: 0}, nil
		},
		updateStatusFn: func(_ context.Context, id uint, _ models.DocumentRequestStatus, _ int, _ models.DocumentRequestStatus, _ string) error {
			// Another adjudicator won the race after our snapshot loaded.
			return models.NewConcurrentModificationError("Document request", id)
		},
	}
	svc, dispatcher := newDocumentRequestService(requests, nil)

	_, err := svc.UpdateStatus(context.Background(), models.Caller{ID: 1, Role: models.RoleHead}, 3, models.DocumentRequestStatusClaimed, "")
	assertCode(t, err, models.CodeConcurrentModification)
	// No effects fire for a transition that did not commit.
	assert.Empty(t, dispatcher.all())
}

func TestUpdateStatusIllegalTransitionNotCommitted(t *testing.T) {
	t.Parallel()

	requests := &stubDocumentRequestRepo{
		getByIDFn: func(_ context.Context, id uint) (*models.DocumentRequest, error) {
			return &models.DocumentRequest{ID: id, Status: models.DocumentRequestStatusDenied}, nil
		},
		updateStatusFn: func(context.Context, uint, models.DocumentRequestStatus, int, models.DocumentRequestStatus, string) error {
			t.Fatal("rejected transition must not reach the repository")
			return nil
		},
	}
	svc, _ := newDocumentRequestService(requests, nil)

	_, err := svc.UpdateStatus(context.Background(), models.Caller{ID: 1, Role: models.RoleHead}, 3, models.DocumentRequestStatusClaimed, "")
	assertCode(t, err, models.CodeIllegalTransition)
}

func TestGetScopesClientsToOwnRequests(t *testing.T) {
	t.Parallel()

	requests := &stubDocumentRequestRepo{
		getByIDFn: func(_ context.Context, id uint) (*models.DocumentRequest, error) {
			return &models.DocumentRequest{ID: id, RequesterID: 99}, nil
		},
	}
	svc, _ := newDocumentRequestService(requests, nil)

	_, err := svc.Get(context.Background(), models.Caller{ID: 7, Role: models.RoleClient}, 3)
	assertCode(t, err, models.CodeUnauthorized)

	got, err := svc.Get(context.Background(), models.Caller{ID: 2, Role: models.RoleStaff}, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.ID)
}

func TestListScoping(t *testing.T) {
	t.Parallel()

	var captured repository.DocumentRequestListFilter
	requests := &stubDocumentRequestRepo{
		listFn: func(_ context.Context, filter repository.DocumentRequestListFilter) ([]models.DocumentRequest, error) {
			captured = filter
			return nil, nil
		},
	}
	svc, _ := newDocumentRequestService(requests, nil)

	_, err := svc.List(context.Background(), models.Caller{ID: 7, Role: models.RoleClient}, ListRequestsInput{})
	require.NoError(t, err)
	require.NotNil(t, captured.RequesterID)
	assert.Equal(t, uint(7), *captured.RequesterID)

	_, err = svc.List(context.Background(), models.Caller{ID: 2, Role: models.RolePlanning}, ListRequestsInput{})
	require.NoError(t, err)
	assert.Nil(t, captured.RequesterID)

	_, err = svc.List(context.Background(), models.Caller{ID: 9, Role: models.Role("intern")}, ListRequestsInput{})
	assertCode(t, err, models.CodeUnauthorized)
}
