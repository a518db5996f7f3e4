package appointment

import "github.com/BruksfildServices01/hyperlocal-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusInProgress,
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusAccepted:   "Accepted",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusRejected:   "Rejected",
	StatusCancelled:  "Cancelled",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) Label() string {
	return statusLabels[s]
}

// Active statuses occupy a barber's time.
func (s Status) Active() bool {
	return s == StatusAccepted || s == StatusInProgress
}

func InitialStatus() Status {
	return StatusPending
}

// RequiresRemark reports whether moving to s needs a remark from the caller.
func RequiresRemark(s Status) bool {
	return s == StatusRejected || s == StatusCancelled
}

// ===============================
// Transitions
// ===============================

// CanTransition guards current -> requested. Anything not listed is allowed.
func CanTransition(current, requested Status) error {
	if !requested.Valid() {
		return httperr.ValidationErr("invalid_status", "Unknown appointment status.")
	}

	switch current {
	case StatusRejected:
		return httperr.Domain("appointment_rejected", "Rejected appointments cannot change status.")
	case StatusCancelled:
		return httperr.Domain("appointment_cancelled", "Cancelled appointments cannot change status.")
	case StatusAccepted:
		if requested == StatusRejected {
			return httperr.Domain("accepted_cannot_be_rejected", "An accepted appointment can only be cancelled, not rejected.")
		}
	case StatusInProgress:
		if requested == StatusCancelled {
			return httperr.Domain("in_progress_cannot_be_cancelled", "An appointment in progress cannot be cancelled.")
		}
	case StatusCompleted:
		if requested != StatusCompleted {
			return httperr.Domain("appointment_completed", "Completed appointments cannot change status.")
		}
	}
	return nil
}

// ===============================
// Payment
// ===============================

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentMode string

const (
	PaymentCash   PaymentMode = "cash"
	PaymentOnline PaymentMode = "online"
	PaymentOther  PaymentMode = "other"
)

var PaymentModes = []PaymentMode{PaymentCash, PaymentOnline, PaymentOther}

var paymentModeLabels = map[PaymentMode]string{
	PaymentCash:   "Cash",
	PaymentOnline: "Online",
	PaymentOther:  "Other",
}

func (m PaymentMode) Label() string {
	return paymentModeLabels[m]
}
