package notification

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
)

// Channel identifies a delivery channel.
type Channel int

const (
	// ChannelUnknown is the invalid zero value.
	ChannelUnknown Channel = iota
	// ChannelEmail delivers via the email sender.
	ChannelEmail
	// ChannelSMS delivers via the SMS sender.
	ChannelSMS
	// ChannelPush delivers via the mobile push sender.
	ChannelPush
	// ChannelInApp stores the notification for in-app display.
	ChannelInApp
)

func getChannelStrings() map[Channel]string {
	return map[Channel]string{
		ChannelUnknown: "unknown",
		ChannelEmail:   "email",
		ChannelSMS:     "sms",
		ChannelPush:    "push",
		ChannelInApp:   "in_app",
	}
}

// String returns the snake_case channel name.
func (c Channel) String() string {
	if s, ok := getChannelStrings()[c]; ok {
		return s
	}
	return "unknown"
}

// Validate rejects ChannelUnknown and out-of-range values.
func (c Channel) Validate() error {
	if c == ChannelUnknown {
		return errs.NewValueIsInvalidErrorWithCause("channel",
			fmt.Errorf("%d is not a valid channel", int(c)))
	}
	if _, ok := getChannelStrings()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("channel",
			fmt.Errorf("%d is not a valid channel", int(c)))
	}
	return nil
}

// AllChannels returns every valid channel, in a fixed order.
func AllChannels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelPush, ChannelInApp}
}

// Type classifies what a notification is about. Preferences are resolved per
// (user, type).
type Type int

const (
	// TypeUnknown is the invalid zero value.
	TypeUnknown Type = iota
	// TypeOrderUpdate covers payment, processing, cancellation and refund news.
	TypeOrderUpdate
	// TypeDeliveryUpdate covers shipment and tracking news.
	TypeDeliveryUpdate
	// TypeSecurityAlert covers events the user must always see.
	TypeSecurityAlert
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:        "unknown",
		TypeOrderUpdate:    "order_update",
		TypeDeliveryUpdate: "delivery_update",
		TypeSecurityAlert:  "security_alert",
	}
}

// String returns the snake_case type name.
func (t Type) String() string {
	if s, ok := getTypeStrings()[t]; ok {
		return s
	}
	return "unknown"
}

// Priority orders notifications by importance. Only PriorityUrgent bypasses
// quiet hours.
type Priority int

const (
	// PriorityLow is informational.
	PriorityLow Priority = iota + 1
	// PriorityMedium is the default for lifecycle news.
	PriorityMedium
	// PriorityHigh is for news the user likely wants promptly.
	PriorityHigh
	// PriorityUrgent is delivered even inside quiet hours.
	PriorityUrgent
)

// IsUrgent reports whether the priority bypasses quiet-hours suppression.
func (p Priority) IsUrgent() bool {
	return p == PriorityUrgent
}

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityLow:    "low",
		PriorityMedium: "medium",
		PriorityHigh:   "high",
		PriorityUrgent: "urgent",
	}
}

// String returns the lowercase priority name.
func (p Priority) String() string {
	if s, ok := getPriorityStrings()[p]; ok {
		return s
	}
	return "unknown"
}

// DedupeKey derives the deterministic identifier guaranteeing at-most-one
// delivery attempt per (order, triggering transition, channel). Retries must
// reuse the key, never mint a new one.
func DedupeKey(orderID kernel.UUID, transitionKind string, channel Channel) string {
	sum := sha256.Sum256([]byte(orderID.String() + "|" + transitionKind + "|" + channel.String()))
	return hex.EncodeToString(sum[:])
}

// ForTransition classifies an order transition into a notification type,
// priority, and human-readable message. Transitions into a terminal status
// are raised to at least PriorityHigh.
func ForTransition(from, to order.Status) (Type, Priority, string) {
	notifType, priority, body := classifyTransition(from, to)
	if to.IsTerminal() && priority < PriorityHigh {
		priority = PriorityHigh
	}
	return notifType, priority, body
}

func classifyTransition(from, to order.Status) (Type, Priority, string) {
	switch to {
	case order.PaymentConfirmed:
		return TypeOrderUpdate, PriorityMedium, "Your payment was confirmed."
	case order.Processing:
		return TypeOrderUpdate, PriorityLow, "Your order is being prepared."
	case order.Shipped:
		return TypeDeliveryUpdate, PriorityMedium, "Your order has shipped."
	case order.OutForDelivery:
		return TypeDeliveryUpdate, PriorityMedium, "Your order is out for delivery."
	case order.Delivered:
		return TypeDeliveryUpdate, PriorityMedium, "Your order was delivered."
	case order.Cancelled:
		return TypeOrderUpdate, PriorityHigh, "Your order was cancelled."
	case order.RefundRequested:
		return TypeOrderUpdate, PriorityMedium, "Your refund request was received."
	case order.Refunded:
		return TypeOrderUpdate, PriorityHigh, "Your refund has been issued."
	default:
		return TypeOrderUpdate, PriorityLow, fmt.Sprintf("Order status changed from %s to %s.", from, to)
	}
}

// ForTrackingStatus classifies a tracking update that does not move the order
// lifecycle (failed attempts, returns).
func ForTrackingStatus(status shipment.CanonicalStatus) (Type, Priority, string, bool) {
	switch status {
	case shipment.CanonicalDeliveryFailed:
		return TypeDeliveryUpdate, PriorityUrgent, "A delivery attempt failed. Action may be required.", true
	case shipment.CanonicalReturned:
		return TypeDeliveryUpdate, PriorityHigh, "Your package is being returned to the sender.", true
	default:
		return TypeUnknown, PriorityLow, "", false
	}
}

// DeliveryStatus tracks the lifecycle of one notification log row.
type DeliveryStatus string

const (
	// DeliveryPending is the initial state of a recorded notification.
	DeliveryPending DeliveryStatus = "PENDING"
	// DeliverySent means the channel sender accepted the message.
	DeliverySent DeliveryStatus = "SENT"
	// DeliveryFailed means the send failed; the retry job may re-attempt it.
	DeliveryFailed DeliveryStatus = "FAILED"
	// DeliverySkipped means the dispatch decision suppressed the message
	// (quiet hours, disabled type or channel). Never retried.
	DeliverySkipped DeliveryStatus = "SKIPPED"
)

// Notification is one message bound for one channel.
type Notification struct {
	ID        kernel.UUID
	UserID    kernel.UUID
	OrderID   kernel.UUID
	Type      Type
	Priority  Priority
	Channel   Channel
	DedupeKey string
	Subject   string
	Body      string
	Status    DeliveryStatus
	Attempts  int
	CreatedAt time.Time
	SentAt    *time.Time
}
