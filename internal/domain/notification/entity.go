package notification

import "time"

// Channel is the delivery medium the server used or intends to use.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "inapp"
)

// DeliveryStatus tracks server-side delivery of the notification.
type DeliveryStatus string

const (
	DeliveryQueued DeliveryStatus = "queued"
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Notification is one message created server-side and either pushed over the
// live channel or fetched with the backlog on bootstrap.
type Notification struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Channel   Channel        `json:"channel"`
	Title     string         `json:"title" validate:"required"`
	Body      string         `json:"body"`
	Status    DeliveryStatus `json:"status"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt *time.Time     `json:"created_at,omitempty"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
}
