package syncctl

import (
	"errors"
	"strings"

	"todoapp/pkg/apierrors"
)

type NotificationStatus string

const (
	NotificationSuccess NotificationStatus = "success"
	NotificationError   NotificationStatus = "error"
)

// Notification is the single message shown to the user. When ActionLabel is
// set the notification offers Undo for TodoID.
type Notification struct {
	Status      NotificationStatus
	Message     string
	ActionLabel string
	TodoID      string
}

func (n *Notification) HasUndo() bool {
	return n != nil && n.ActionLabel != "" && n.TodoID != ""
}

// ErrorMessage picks the text shown for a failed call: the API error message,
// then the error text, then fallback. Blank values are skipped.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr apierrors.JsonErr
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.ErrDetails.Message); msg != "" {
			return msg
		}
		return fallback
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
