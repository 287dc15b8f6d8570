package domain

import "time"

// VisibilityLevel is the audience scope permitted to view a user's availability
type VisibilityLevel string

const (
	VisibilityPublic       VisibilityLevel = "public"
	VisibilityContactsOnly VisibilityLevel = "contacts_only"
	VisibilityPrivate      VisibilityLevel = "private"
)

// IsValid returns true if the level is one of the known visibility levels
func (v VisibilityLevel) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityContactsOnly || v == VisibilityPrivate
}

// PrivacySettings controls what third-party viewers see of an owner's
// calendar and constrains how far ahead / how late bookings may be placed.
type PrivacySettings struct {
	UserID int64

	IsVisible       bool
	VisibilityLevel VisibilityLevel
	AllowedUsers    []int64

	// HiddenDates are removed from any non-owner view. YYYY-MM-DD strings.
	HiddenDates []string

	// ShowPartialAvailability controls whether a partially booked day is
	// shown as partial or degraded to unavailable for non-owners.
	ShowPartialAvailability bool

	LeadTimeHours      int
	AdvanceBookingDays int // 0 = unlimited

	NotifyOnBooking      bool
	NotifyOnCancellation bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultPrivacySettings returns the settings applied to users who never
// configured privacy explicitly
func DefaultPrivacySettings(userID int64) *PrivacySettings {
	return &PrivacySettings{
		UserID:                  userID,
		IsVisible:               true,
		VisibilityLevel:         VisibilityPublic,
		ShowPartialAvailability: true,
		LeadTimeHours:           DefaultLeadTimeHours,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		NotifyOnBooking:         true,
		NotifyOnCancellation:    true,
	}
}

// AllowsViewer reports whether the viewer passes the visibility level.
// The owner always passes.
func (p *PrivacySettings) AllowsViewer(viewerID int64) bool {
	if viewerID == p.UserID {
		return true
	}
	if !p.IsVisible {
		return false
	}

	switch p.VisibilityLevel {
	case VisibilityPublic:
		return true
	case VisibilityContactsOnly:
		for _, id := range p.AllowedUsers {
			if id == viewerID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsDateHidden returns true if the date is in the hidden list
func (p *PrivacySettings) IsDateHidden(date time.Time) bool {
	key := date.Format(DateFormat)
	for _, d := range p.HiddenDates {
		if d == key {
			return true
		}
	}
	return false
}
