package models

import "time"

// RequestStatus represents where a service request is in its lifecycle.
type RequestStatus string

const (
	// RequestStatusPending is the initial status of every request.
	RequestStatusPending RequestStatus = "PENDING"
	// RequestStatusAccepted means the provider agreed to deliver.
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	// RequestStatusCompleted means the provider delivered.
	RequestStatusCompleted RequestStatus = "COMPLETED"
	// RequestStatusCanceled means either party withdrew.
	RequestStatusCanceled RequestStatus = "CANCELED"
)

// Valid reports whether s is one of the four known statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusCompleted, RequestStatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCanceled
}

// RequestAction is a lifecycle verb submitted by one of the two parties.
type RequestAction string

const (
	ActionAccept   RequestAction = "accept"
	ActionComplete RequestAction = "complete"
	ActionCancel   RequestAction = "cancel"
)

// ServiceRequest is a requester asking a provider for one of the provider's
// skills. ProviderID always equals OfferedSkill.UserID at creation.
type ServiceRequest struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	RequesterID    uint          `gorm:"not null;index" json:"requester_id"`
	ProviderID     uint          `gorm:"not null;index" json:"provider_id"`
	OfferedSkillID uint          `gorm:"not null;index" json:"offered_skill_id"`
	Description    string        `gorm:"type:text;not null" json:"description"`
	Status         RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`

	// ProviderRating is filled by feed queries only.
	ProviderRating float64 `gorm:"->;-:migration" json:"provider_rating"`

	Requester    *User  `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	Provider     *User  `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"provider,omitempty"`
	OfferedSkill *Skill `gorm:"foreignKey:OfferedSkillID;constraint:OnDelete:CASCADE" json:"offered_skill,omitempty"`
}

// TableName specifies the table name for GORM
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// NextStatus returns the status that action moves the request to when
// performed by actorID, and false when the transition is not permitted.
//
//	PENDING  + accept   (provider)            -> ACCEPTED
//	ACCEPTED + complete (provider)            -> COMPLETED
//	PENDING|ACCEPTED + cancel (either party)  -> CANCELED
func (r *ServiceRequest) NextStatus(actorID uint, action RequestAction) (RequestStatus, bool) {
	isProvider := actorID == r.ProviderID
	isRequester := actorID == r.RequesterID

	switch action {
	case ActionAccept:
		if isProvider && r.Status == RequestStatusPending {
			return RequestStatusAccepted, true
		}
	case ActionComplete:
		if isProvider && r.Status == RequestStatusAccepted {
			return RequestStatusCompleted, true
		}
	case ActionCancel:
		if (isProvider || isRequester) && !r.Status.Terminal() {
			return RequestStatusCanceled, true
		}
	}
	return r.Status, false
}

// IsParty reports whether userID is the requester or the provider.
func (r *ServiceRequest) IsParty(userID uint) bool {
	return userID == r.RequesterID || userID == r.ProviderID
}
