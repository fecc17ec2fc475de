package request

// Status is the server-authoritative lifecycle state of a pickup request.
// Transitions happen server-side only; the tables below exist so the client
// can render progress and gate the cancel action, never to compute the next
// state.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusSubmitted     Status = "submitted"
	StatusPendingReview Status = "pending_review"
	StatusScheduled     Status = "scheduled"
	StatusEnroute       Status = "enroute"
	StatusOnsite        Status = "onsite"
	StatusCollecting    Status = "collecting"
	StatusCollected     Status = "collected"
	StatusHandover      Status = "handover"
	StatusVerification  Status = "verification"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
	StatusFailed        Status = "failed"
)

// Progression is the ordered happy path, used for timeline rendering.
var Progression = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusPendingReview,
	StatusScheduled,
	StatusEnroute,
	StatusOnsite,
	StatusCollecting,
	StatusCollected,
	StatusHandover,
	StatusVerification,
	StatusCompleted,
}

var progressionIndex = func() map[Status]int {
	idx := make(map[Status]int, len(Progression))
	for i, s := range Progression {
		idx[s] = i
	}
	return idx
}()

var cancellable = map[Status]bool{
	StatusDraft:     true,
	StatusSubmitted: true,
	StatusScheduled: true,
}

// Cancellable reports whether the client may issue a cancel for this state.
func (s Status) Cancellable() bool {
	return cancellable[s]
}

// Terminal reports whether the lifecycle can no longer move.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// Known reports whether the status is part of the lifecycle at all. Unknown
// values coming off the wire are rejected at the gateway boundary.
func (s Status) Known() bool {
	if _, ok := progressionIndex[s]; ok {
		return true
	}
	return s == StatusCancelled || s == StatusFailed
}

// ProgressIndex returns the position of the status on the happy path, or -1
// for the absorbing cancelled/failed states.
func (s Status) ProgressIndex() int {
	if i, ok := progressionIndex[s]; ok {
		return i
	}
	return -1
}
