package entity

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient message shown to the user once.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Success returns a success notification carrying msg.
func Success(msg string) Notification {
	return Notification{Kind: NotificationSuccess, Message: msg}
}

// Failure returns an error notification carrying msg.
func Failure(msg string) Notification {
	return Notification{Kind: NotificationError, Message: msg}
}
