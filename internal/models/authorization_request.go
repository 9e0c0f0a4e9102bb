package models

import "time"

// AuthorizationRequestStatus defines lifecycle states for authorization
// requests and their units. Unlike document requests there is no claim
// step: approved and denied are both terminal.
type AuthorizationRequestStatus string

const (
	// AuthorizationRequestStatusPending is the initial state.
	AuthorizationRequestStatusPending AuthorizationRequestStatus = "pending"
	// AuthorizationRequestStatusApproved is terminal.
	AuthorizationRequestStatusApproved AuthorizationRequestStatus = "approved"
	// AuthorizationRequestStatusDenied is terminal; denial carries remarks.
	AuthorizationRequestStatusDenied AuthorizationRequestStatus = "denied"
)

// AuthorizationRequest is a client request for permission to access
// documents. The head adjudicates the request as a whole or unit by unit.
type AuthorizationRequest struct {
	ID            uint                       `gorm:"primaryKey" json:"id"`
	RequesterID   uint                       `gorm:"not null;index" json:"requester_id"`
	Requester     *User                      `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	College       string                     `gorm:"size:64;not null" json:"college"`
	Purpose       string                     `gorm:"size:512;not null" json:"purpose"`
	Status        AuthorizationRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Remarks       string                     `gorm:"type:text" json:"remarks"`
	Units         []AuthorizationRequestUnit `gorm:"foreignKey:AuthorizationRequestID;constraint:OnDelete:CASCADE" json:"documents"`
	DateRequested time.Time                  `gorm:"autoCreateTime" json:"date_requested"`
	Version       int                        `gorm:"not null;default:0" json:"-"`
}

// TableName specifies the table name for GORM.
func (AuthorizationRequest) TableName() string {
	return "authorization_requests"
}

// AuthorizationRequestUnit is one document line of an authorization
// request. Units carry their own status and version so the head can grant
// or deny access per document.
type AuthorizationRequestUnit struct {
	ID                     uint                       `gorm:"primaryKey" json:"id"`
	AuthorizationRequestID uint                       `gorm:"not null;index" json:"-"`
	DocumentID             uint                       `gorm:"not null;index" json:"document_id"`
	Document               *Document                  `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Copies                 int                        `gorm:"not null" json:"copies"`
	Status                 AuthorizationRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Remarks                string                     `gorm:"type:text" json:"remarks"`
	Version                int                        `gorm:"not null;default:0" json:"-"`
}

// TableName specifies the table name for GORM.
func (AuthorizationRequestUnit) TableName() string {
	return "authorization_request_units"
}
