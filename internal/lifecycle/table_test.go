package lifecycle

import (
	"errors"
	"testing"

	"docmanager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestDocumentRequestTable_Transitions(t *testing.T) {
	t.Parallel()

	remarks := Fields{FieldRemarks: "incomplete requirements"}
	statuses := []models.DocumentRequestStatus{
		models.DocumentRequestStatusUnclaimed,
		models.DocumentRequestStatusApproved,
		models.DocumentRequestStatusDenied,
		models.DocumentRequestStatusClaimed,
	}

	// Exhaustive source x target grid against the spec'd rule set.
	legal := map[models.DocumentRequestStatus][]models.DocumentRequestStatus{
		models.DocumentRequestStatusUnclaimed: {models.DocumentRequestStatusClaimed},
		models.DocumentRequestStatusApproved: {
			models.DocumentRequestStatusClaimed,
			models.DocumentRequestStatusUnclaimed,
		},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			from, to := from, to
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				t.Parallel()
				err := DocumentRequestTable.Validate(from, to, remarks)

				if DocumentRequestTable.Terminal(from) {
					assertCode(t, err, models.CodeIllegalTransition)
					return
				}
				if from == to {
					assertCode(t, err, models.CodeNoOpTransition)
					return
				}
				for _, ok := range legal[from] {
					if ok == to {
						assert.NoError(t, err)
						return
					}
				}
				assertCode(t, err, models.CodeIllegalTransition)
			})
		}
	}
}

func TestDocumentRequestTable_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, DocumentRequestTable.Terminal(models.DocumentRequestStatusDenied))
	assert.True(t, DocumentRequestTable.Terminal(models.DocumentRequestStatusClaimed))
	assert.False(t, DocumentRequestTable.Terminal(models.DocumentRequestStatusUnclaimed))
	assert.False(t, DocumentRequestTable.Terminal(models.DocumentRequestStatusApproved))
}

func TestAuthorizationRequestTable_Transitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to models.AuthorizationRequestStatus
		fields   Fields
		wantCode string
	}{
		{
			name: "pending to approved",
			from: models.AuthorizationRequestStatusPending,
			to:   models.AuthorizationRequestStatusApproved,
		},
		{
			name:   "pending to denied with remarks",
			from:   models.AuthorizationRequestStatusPending,
			to:     models.AuthorizationRequestStatusDenied,
			fields: Fields{FieldRemarks: "incomplete"},
		},
		{
			name:     "pending to denied without remarks",
			from:     models.AuthorizationRequestStatusPending,
			to:       models.AuthorizationRequestStatusDenied,
			wantCode: models.CodeMissingRequiredField,
		},
		{
			name:     "pending to denied with blank remarks",
			from:     models.AuthorizationRequestStatusPending,
			to:       models.AuthorizationRequestStatusDenied,
			fields:   Fields{FieldRemarks: ""},
			wantCode: models.CodeMissingRequiredField,
		},
		{
			name:     "pending to pending is a no-op",
			from:     models.AuthorizationRequestStatusPending,
			to:       models.AuthorizationRequestStatusPending,
			wantCode: models.CodeNoOpTransition,
		},
		{
			name:     "approved is terminal",
			from:     models.AuthorizationRequestStatusApproved,
			to:       models.AuthorizationRequestStatusDenied,
			fields:   Fields{FieldRemarks: "changed my mind"},
			wantCode: models.CodeIllegalTransition,
		},
		{
			name:     "denied is terminal",
			from:     models.AuthorizationRequestStatusDenied,
			to:       models.AuthorizationRequestStatusApproved,
			wantCode: models.CodeIllegalTransition,
		},
		{
			name:     "terminal wins over no-op",
			from:     models.AuthorizationRequestStatusDenied,
			to:       models.AuthorizationRequestStatusDenied,
			wantCode: models.CodeIllegalTransition,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := AuthorizationRequestTable.Validate(tt.from, tt.to, tt.fields)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestTable_NextAndRequiredFieldsAreCopies(t *testing.T) {
	t.Parallel()

	next := DocumentRequestTable.Next(models.DocumentRequestStatusApproved)
	require.Len(t, next, 2)
	next[0] = models.DocumentRequestStatusDenied
	assert.Equal(t,
		models.DocumentRequestStatusClaimed,
		DocumentRequestTable.Next(models.DocumentRequestStatusApproved)[0])

	required := DocumentRequestTable.RequiredFields(models.DocumentRequestStatusDenied)
	require.Equal(t, []string{FieldRemarks}, required)
	required[0] = "something_else"
	assert.Equal(t, []string{FieldRemarks}, DocumentRequestTable.RequiredFields(models.DocumentRequestStatusDenied))
}
