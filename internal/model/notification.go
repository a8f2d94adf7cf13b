package model

// Notification kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Notification is a transient user-facing message (toast). At most one is
// live at a time; a newer one replaces the pending one.
type Notification struct {
	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Kind is either ToastSuccess or ToastError and controls styling.
	Kind string `json:"kind"`
}
