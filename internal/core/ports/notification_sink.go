package ports

import "context"

// NotificationLevel is the urgency of an operator notification.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a message for the operator console.
type Notification struct {
	Level        NotificationLevel
	OrderID      string
	TrackingCode string
	Message      string
}

// NotificationSink delivers operator notifications. Notify is fire-and-forget:
// implementations log delivery problems instead of returning them.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification)
}
