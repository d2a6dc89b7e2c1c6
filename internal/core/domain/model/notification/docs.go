// Package notification contains the notification domain model: channels,
// priorities, per-user preferences with quiet hours, and the dedupe key that
// guarantees at-most-one delivery attempt per logical event per channel.
package notification
