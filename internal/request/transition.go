package request

import (
	requesterrors "github.com/sawa0358/hr-system-2025-sub003/internal/request/errors"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
)

// Command is a side effect the service must execute, in order, inside
// the same transaction as the status change.
type Command string

const (
	CmdRefund  Command = "refund"
	CmdConsume Command = "consume"
	CmdNotify  Command = "notify"
)

type Decision struct {
	Next     Status
	Delete   bool
	Commands []Command
}

// Decide is the request lifecycle transition table. It is pure: the
// caller executes the returned commands and persists Next. Acting on a
// non-PENDING request always needs force, which the caller must back by
// a privilege check.
//
// Note the edit asymmetry: a forced edit of an APPROVED request keeps it
// APPROVED (re-approval with fresh consumption), while a forced edit of
// a REJECTED request reopens it as PENDING for re-review.
func Decide(current Status, action Action, force bool) (Decision, error) {
	switch current {
	case StatusPending:
		switch action {
		case ActionApprove:
			return Decision{Next: StatusApproved, Commands: []Command{CmdConsume, CmdNotify}}, nil
		case ActionReject:
			return Decision{Next: StatusRejected, Commands: []Command{CmdNotify}}, nil
		case ActionEdit:
			return Decision{Next: StatusPending}, nil
		case ActionDelete:
			return Decision{Delete: true}, nil
		}

	case StatusApproved:
		switch action {
		case ActionEdit:
			if !force {
				return Decision{}, requesterrors.ErrForceRequired
			}
			return Decision{Next: StatusApproved, Commands: []Command{CmdRefund, CmdConsume, CmdNotify}}, nil
		case ActionDelete:
			if !force {
				return Decision{}, requesterrors.ErrForceRequired
			}
			return Decision{Delete: true, Commands: []Command{CmdRefund, CmdNotify}}, nil
		case ActionApprove, ActionReject:
			return Decision{}, requesterrors.ErrInvalidTransition
		}

	case StatusRejected:
		switch action {
		case ActionEdit:
			if !force {
				return Decision{}, requesterrors.ErrForceRequired
			}
			return Decision{Next: StatusPending, Commands: []Command{CmdNotify}}, nil
		case ActionDelete:
			// Rejected requests never consumed anything; plain removal.
			return Decision{Delete: true}, nil
		case ActionApprove, ActionReject:
			return Decision{}, requesterrors.ErrInvalidTransition
		}
	}

	return Decision{}, requesterrors.ErrInvalidTransition
}

func (d Decision) Has(cmd Command) bool {
	for _, c := range d.Commands {
		if c == cmd {
			return true
		}
	}
	return false
}
