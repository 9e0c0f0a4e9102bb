package lifecycle

import (
	"fmt"

	"docmanager/internal/models"
)

// The engine applies a single transition: it verifies the caller's
// capability, consults the transition table, produces the updated request
// value, and returns the ordered side effects. It never touches storage;
// the caller persists the update (re-validating the precondition at commit
// time) and then hands the effects to the dispatcher.

// ApplyDocumentTransition validates and applies a status change to a
// document request.
func ApplyDocumentTransition(
	req models.DocumentRequest,
	role models.Role,
	target models.DocumentRequestStatus,
	fields Fields,
) (models.DocumentRequest, []Effect, error) {
	if !role.Can(models.CapabilityAdjudicate) {
		return req, nil, models.NewUnauthorizedError("Role is not allowed to adjudicate requests")
	}
	if err := DocumentRequestTable.Validate(req.Status, target, fields); err != nil {
		return req, nil, err
	}

	updated := req
	updated.Status = target
	if remarks := fields[FieldRemarks]; remarks != "" {
		updated.Remarks = remarks
	}

	effects := adjudicationEffects(
		target == models.DocumentRequestStatusApproved,
		target == models.DocumentRequestStatusDenied,
		req.RequesterID,
		requesterEmail(req.Requester),
		fmt.Sprintf("Your document request ID:%d has been %s", req.ID, target),
		fields,
	)
	return updated, effects, nil
}

// ApplyAuthorizationTransition validates and applies a status change to an
// authorization request header.
func ApplyAuthorizationTransition(
	req models.AuthorizationRequest,
	role models.Role,
	target models.AuthorizationRequestStatus,
	fields Fields,
) (models.AuthorizationRequest, []Effect, error) {
	if !role.Can(models.CapabilityAdjudicate) {
		return req, nil, models.NewUnauthorizedError("Role is not allowed to adjudicate requests")
	}
	if err := AuthorizationRequestTable.Validate(req.Status, target, fields); err != nil {
		return req, nil, err
	}

	updated := req
	updated.Status = target
	if remarks := fields[FieldRemarks]; remarks != "" {
		updated.Remarks = remarks
	}

	effects := adjudicationEffects(
		target == models.AuthorizationRequestStatusApproved,
		target == models.AuthorizationRequestStatusDenied,
		req.RequesterID,
		requesterEmail(req.Requester),
		fmt.Sprintf("Your authorization request ID:%d has been %s", req.ID, target),
		fields,
	)
	return updated, effects, nil
}

// ApplyAuthorizationUnitTransition validates and applies a status change
// to a single unit of an authorization request. Unit adjudication needs
// the adjudicateUnit capability and notifies the parent request's owner.
func ApplyAuthorizationUnitTransition(
	unit models.AuthorizationRequestUnit,
	parent models.AuthorizationRequest,
	role models.Role,
	target models.AuthorizationRequestStatus,
	fields Fields,
) (models.AuthorizationRequestUnit, []Effect, error) {
	if !role.Can(models.CapabilityAdjudicateUnit) {
		return unit, nil, models.NewUnauthorizedError("Role is not allowed to adjudicate request units")
	}
	if err := AuthorizationRequestTable.Validate(unit.Status, target, fields); err != nil {
		return unit, nil, err
	}

	updated := unit
	updated.Status = target
	if remarks := fields[FieldRemarks]; remarks != "" {
		updated.Remarks = remarks
	}

	effects := adjudicationEffects(
		target == models.AuthorizationRequestStatusApproved,
		target == models.AuthorizationRequestStatusDenied,
		parent.RequesterID,
		requesterEmail(parent.Requester),
		fmt.Sprintf("A document in your authorization request ID:%d has been %s", parent.ID, target),
		fields,
	)
	return updated, effects, nil
}

// DocumentCreationEffects returns the effects of filing a new document
// request: a head-audience notification announcing it.
func DocumentCreationEffects(req models.DocumentRequest) []Effect {
	return []Effect{
		NotificationEffect{
			Audience: models.AudienceHead,
			Type:     models.NotificationTypeInfo,
			Content:  fmt.Sprintf("A new document request ID:%d requires your attention", req.ID),
		},
	}
}

// AuthorizationCreationEffects returns the effects of filing a new
// authorization request.
func AuthorizationCreationEffects(req models.AuthorizationRequest) []Effect {
	return []Effect{
		NotificationEffect{
			Audience: models.AudienceHead,
			Type:     models.NotificationTypeInfo,
			Content:  fmt.Sprintf("A new authorization request ID:%d requires your attention", req.ID),
		},
	}
}

// adjudicationEffects builds the ordered effect list for an applied
// transition: the client notification first, then the email. Transitions
// to claimed or unclaimed are silent.
func adjudicationEffects(approved, denied bool, requesterID uint, email, content string, fields Fields) []Effect {
	if !approved && !denied {
		return nil
	}

	requester := requesterID
	effects := []Effect{
		NotificationEffect{
			ClientID: &requester,
			Audience: models.AudienceClient,
			Type:     models.NotificationTypeInfo,
			Content:  content,
		},
	}

	if email == "" {
		return effects
	}
	status := "approved"
	remarks := "N/A"
	if denied {
		status = "denied"
		remarks = fields[FieldRemarks]
	}
	effects = append(effects, EmailEffect{
		TemplateID: EmailTemplateRequestUpdate,
		Recipient:  email,
		Context: map[string]string{
			"request_status": status,
			"remarks":        remarks,
		},
	})
	return effects
}

func requesterEmail(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}
