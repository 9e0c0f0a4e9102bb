package models

import "time"

// DocumentRequestStatus defines lifecycle states for document requests.
type DocumentRequestStatus string

const (
	// DocumentRequestStatusUnclaimed is the initial state: the request has
	// been filed but the requester has not picked up the copies.
	DocumentRequestStatusUnclaimed DocumentRequestStatus = "unclaimed"
	// DocumentRequestStatusApproved indicates the request was granted.
	DocumentRequestStatusApproved DocumentRequestStatus = "approved"
	// DocumentRequestStatusDenied is terminal; denial always carries remarks.
	DocumentRequestStatusDenied DocumentRequestStatus = "denied"
	// DocumentRequestStatusClaimed is terminal; the copies were picked up.
	DocumentRequestStatusClaimed DocumentRequestStatus = "claimed"
)

// DocumentRequestType is the fulfillment medium of a request.
type DocumentRequestType string

const (
	// DocumentRequestTypeHardcopy is a request for printed copies.
	DocumentRequestTypeHardcopy DocumentRequestType = "hardcopy"
	// DocumentRequestTypeSoftcopy is recognized but not currently accepted.
	DocumentRequestTypeSoftcopy DocumentRequestType = "softcopy"
)

// DocumentRequest is a client request for copies of stored documents.
// Status only ever changes through the lifecycle engine; Version guards
// concurrent adjudication (see repository.UpdateStatusVersioned).
type DocumentRequest struct {
	ID            uint                  `gorm:"primaryKey" json:"id"`
	RequesterID   uint                  `gorm:"not null;index" json:"requester_id"`
	Requester     *User                 `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	College       string                `gorm:"size:64;not null" json:"college"`
	Type          DocumentRequestType   `gorm:"type:varchar(16);not null" json:"type"`
	Purpose       string                `gorm:"size:512;not null" json:"purpose"`
	Status        DocumentRequestStatus `gorm:"type:varchar(20);not null;default:'unclaimed';index" json:"status"`
	Remarks       string                `gorm:"type:text" json:"remarks"`
	Units         []DocumentRequestUnit `gorm:"foreignKey:DocumentRequestID;constraint:OnDelete:CASCADE" json:"documents"`
	DateRequested time.Time             `gorm:"autoCreateTime" json:"date_requested"`
	Version       int                   `gorm:"not null;default:0" json:"-"`
}

// TableName specifies the table name for GORM.
func (DocumentRequest) TableName() string {
	return "document_requests"
}

// DocumentRequestUnit is one line item of a request: a document reference
// and how many copies of it are wanted. Units are owned by their request
// and cascade-deleted with it.
type DocumentRequestUnit struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	DocumentRequestID uint      `gorm:"not null;index" json:"-"`
	DocumentID        uint      `gorm:"not null;index" json:"document_id"`
	Document          *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Copies            int       `gorm:"not null" json:"copies"`
}

// TableName specifies the table name for GORM.
func (DocumentRequestUnit) TableName() string {
	return "document_request_units"
}
