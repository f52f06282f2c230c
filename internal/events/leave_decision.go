package events

import "time"

const LeaveDecisionTopic = "hr.leave.decision.v1"

const (
	LeaveRequestApproved = "leave_request.approved"
	LeaveRequestRejected = "leave_request.rejected"
	LeaveRequestReverted = "leave_request.reverted"
)

type LeaveDecisionEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	TotalDays  string    `json:"total_days"`
	OccurredAt time.Time `json:"occurred_at"`
}
