package services

import (
	"context"

	"IG_DIRECTORY_BACK-END/internal/models"
)

// ModerationAction names an admin decision
type ModerationAction string

const (
	ActionApproved ModerationAction = "approved"
	ActionRejected ModerationAction = "rejected"
	ActionDeleted  ModerationAction = "deleted"
)

func (a ModerationAction) verb() string {
	switch a {
	case ActionApproved:
		return "approve"
	case ActionRejected:
		return "reject"
	default:
		return "delete"
	}
}

// ModerationEvent describes a decision applied to a profile
type ModerationEvent struct {
	Action  ModerationAction
	Profile models.Profile
}

// Notifier tells the submitter about a decision. Failures never undo the decision.
type Notifier interface {
	Notify(ctx context.Context, ev ModerationEvent) error
}

// NopNotifier drops every event
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ModerationEvent) error { return nil }
