package entity

import (
	"fmt"
	"time"
)

// NCRStatus non-conformity report status
type NCRStatus string

const (
	NCRStatusOpen           NCRStatus = "Open"
	NCRStatusPendingSignOff NCRStatus = "Pending-Sign-Off"
	NCRStatusClosed         NCRStatus = "Closed"
)

// NCREvent input of the NCR state machine
type NCREvent string

const (
	NCREventCorrectiveActionEntered NCREvent = "corrective_action_entered"
	NCREventClose                   NCREvent = "close"
	NCREventReopen                  NCREvent = "reopen"
)

// ErrInvalidTransition event not allowed in the current status
type ErrInvalidTransition struct {
	From  NCRStatus
	Event NCREvent
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot apply %s to an NCR in status %s", e.Event, e.From)
}

// Next is the single NCR transition function.
//
//	Open             --corrective_action_entered--> Pending-Sign-Off
//	Pending-Sign-Off --corrective_action_entered--> Pending-Sign-Off
//	Pending-Sign-Off --close-->                     Closed
//	Closed           --reopen-->                    Open
func (s NCRStatus) Next(event NCREvent) (NCRStatus, error) {
	switch {
	case event == NCREventCorrectiveActionEntered && (s == NCRStatusOpen || s == NCRStatusPendingSignOff):
		return NCRStatusPendingSignOff, nil
	case event == NCREventClose && s == NCRStatusPendingSignOff:
		return NCRStatusClosed, nil
	case event == NCREventReopen && s == NCRStatusClosed:
		return NCRStatusOpen, nil
	}
	return s, &ErrInvalidTransition{From: s, Event: event}
}

// NCR non-conformity report
type NCR struct {
	ID               string     `json:"id" gorm:"primaryKey;size:32"`
	VesselID         string     `json:"vessel_id" gorm:"size:32;index"`
	Title            string     `json:"title" gorm:"size:256;not null"`
	Description      string     `json:"description" gorm:"type:text"`
	RaisedBy         string     `json:"raised_by" gorm:"size:32"`
	CorrectiveAction string     `json:"corrective_action" gorm:"type:text"`
	Status           NCRStatus  `json:"status" gorm:"size:20;not null;default:Open;index"`
	ClosedBy         string     `json:"closed_by" gorm:"size:32"`
	ClosedAt         *time.Time `json:"closed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (NCR) TableName() string {
	return "ncrs"
}
