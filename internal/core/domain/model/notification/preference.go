package notification

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// QuietHours is a daily window, in the user's local time, during which only
// urgent notifications are delivered. A window with start > end wraps across
// midnight: 22:00-07:00 covers the late evening and the early morning.
type QuietHours struct {
	enabled      bool
	startMinutes int
	endMinutes   int
}

// NewQuietHours parses a window from "HH:MM" bounds. Equal bounds are
// rejected; use DisabledQuietHours for "no window".
func NewQuietHours(start, end string) (QuietHours, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return QuietHours{}, err
	}
	endMin, err := parseClock(end)
	if err != nil {
		return QuietHours{}, err
	}
	if startMin == endMin {
		return QuietHours{}, errs.NewValueIsInvalidErrorWithCause("quietHours",
			fmt.Errorf("start %s equals end %s", start, end))
	}
	return QuietHours{enabled: true, startMinutes: startMin, endMinutes: endMin}, nil
}

// DisabledQuietHours returns a window that never suppresses anything.
func DisabledQuietHours() QuietHours {
	return QuietHours{}
}

// Enabled reports whether a window is configured.
func (q QuietHours) Enabled() bool {
	return q.enabled
}

// Contains reports whether the local time t falls inside [start, end).
func (q QuietHours) Contains(t time.Time) bool {
	if !q.enabled {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	if q.startMinutes < q.endMinutes {
		return minutes >= q.startMinutes && minutes < q.endMinutes
	}
	// Wraps midnight.
	return minutes >= q.startMinutes || minutes < q.endMinutes
}

func parseClock(s string) (int, error) {
	var hours, mins int
	if _, err := fmt.Sscanf(s, "%d:%d", &hours, &mins); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("quietHours",
			fmt.Errorf("%q is not a HH:MM clock value", s))
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, errs.NewValueIsInvalidErrorWithCause("quietHours",
			fmt.Errorf("%q is not a HH:MM clock value", s))
	}
	return hours*60 + mins, nil
}

// TypePreference configures one notification type for a user: whether it is
// enabled at all and which channels it goes to.
type TypePreference struct {
	Enabled  bool
	Channels []Channel
}

// Preference holds everything needed to resolve the notify-or-suppress
// decision for one user: per-type settings, global channel master switches,
// the quiet-hours window and the user's timezone.
type Preference struct {
	userID        kernel.UUID
	typeSettings  map[Type]TypePreference
	channelSwitch map[Channel]bool
	quietHours    QuietHours
	timezone      *time.Location
}

// NewPreference creates a validated preference record. Unlisted types resolve
// to the defaults; unlisted channels are treated as globally enabled.
func NewPreference(
	userID kernel.UUID,
	typeSettings map[Type]TypePreference,
	channelSwitch map[Channel]bool,
	quietHours QuietHours,
	timezone *time.Location,
) (*Preference, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if timezone == nil {
		timezone = time.UTC
	}

	settings := make(map[Type]TypePreference, len(typeSettings))
	for k, v := range typeSettings {
		settings[k] = v
	}
	switches := make(map[Channel]bool, len(channelSwitch))
	for k, v := range channelSwitch {
		switches[k] = v
	}

	return &Preference{
		userID:        userID,
		typeSettings:  settings,
		channelSwitch: switches,
		quietHours:    quietHours,
		timezone:      timezone,
	}, nil
}

// DefaultPreference returns the documented fallback applied when no record
// exists for the user: every type enabled on the default channel set, all
// channels on, no quiet hours, UTC.
func DefaultPreference(userID kernel.UUID) *Preference {
	return &Preference{
		userID:        userID,
		typeSettings:  map[Type]TypePreference{},
		channelSwitch: map[Channel]bool{},
		quietHours:    DisabledQuietHours(),
		timezone:      time.UTC,
	}
}

// defaultChannels is the channel set used for types without explicit settings.
func defaultChannels() []Channel {
	return []Channel{ChannelEmail, ChannelInApp}
}

// UserID returns the preference owner.
func (p *Preference) UserID() kernel.UUID {
	return p.userID
}

// QuietHours returns the configured window.
func (p *Preference) QuietHours() QuietHours {
	return p.quietHours
}

// Timezone returns the user's timezone.
func (p *Preference) Timezone() *time.Location {
	return p.timezone
}

// TypeSettings returns a copy of the per-type settings.
func (p *Preference) TypeSettings() map[Type]TypePreference {
	out := make(map[Type]TypePreference, len(p.typeSettings))
	for k, v := range p.typeSettings {
		out[k] = v
	}
	return out
}

// ChannelSwitches returns a copy of the global channel switches.
func (p *Preference) ChannelSwitches() map[Channel]bool {
	out := make(map[Channel]bool, len(p.channelSwitch))
	for k, v := range p.channelSwitch {
		out[k] = v
	}
	return out
}

// ResolveChannels computes the channels a notification of the given type may
// use: the type's configured channels (or defaults) intersected with the
// global channel switches. Returns nil when the type is disabled.
func (p *Preference) ResolveChannels(notificationType Type) []Channel {
	setting, configured := p.typeSettings[notificationType]
	if configured && !setting.Enabled {
		return nil
	}

	channels := setting.Channels
	if !configured || len(channels) == 0 {
		channels = defaultChannels()
	}

	resolved := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if enabled, set := p.channelSwitch[ch]; set && !enabled {
			continue
		}
		resolved = append(resolved, ch)
	}
	return resolved
}

// InQuietHours reports whether now, converted to the user's timezone, falls
// inside the quiet-hours window.
func (p *Preference) InQuietHours(now time.Time) bool {
	return p.quietHours.Contains(now.In(p.timezone))
}
