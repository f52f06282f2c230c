package events

import "time"

const LotGrantedTopic = "hr.leave.grant.v1"

const LeaveLotGranted = "leave_lot.granted"

type LotGrantedEvent struct {
	EventType   string    `json:"event_type"`
	LotID       string    `json:"lot_id"`
	EmployeeID  string    `json:"employee_id"`
	GrantDate   string    `json:"grant_date"`
	DaysGranted string    `json:"days_granted"`
	ExpiryDate  string    `json:"expiry_date"`
	OccurredAt  time.Time `json:"occurred_at"`
}
