package get_privacy

import (
	"github.com/m04kA/SMC-CalendarService/internal/domain"
)

// PrivacyResponse HTTP модель настроек приватности
type PrivacyResponse struct {
	UserID                  int64    `json:"userId"`
	IsVisible               bool     `json:"isVisible"`
	VisibilityLevel         string   `json:"visibilityLevel"`
	AllowedUsers            []int64  `json:"allowedUsers"`
	HiddenDates             []string `json:"hiddenDates"`
	ShowPartialAvailability bool     `json:"showPartialAvailability"`
	LeadTimeHours           int      `json:"leadTimeHours"`
	AdvanceBookingDays      int      `json:"advanceBookingDays"`
	NotifyOnBooking         bool     `json:"notifyOnBooking"`
	NotifyOnCancellation    bool     `json:"notifyOnCancellation"`
}

// FromDomain собирает HTTP модель из доменных настроек
func FromDomain(s *domain.PrivacySettings) *PrivacyResponse {
	resp := &PrivacyResponse{
		UserID:                  s.UserID,
		IsVisible:               s.IsVisible,
		VisibilityLevel:         string(s.VisibilityLevel),
		AllowedUsers:            s.AllowedUsers,
		HiddenDates:             s.HiddenDates,
		ShowPartialAvailability: s.ShowPartialAvailability,
		LeadTimeHours:           s.LeadTimeHours,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		NotifyOnBooking:         s.NotifyOnBooking,
		NotifyOnCancellation:    s.NotifyOnCancellation,
	}
	if resp.AllowedUsers == nil {
		resp.AllowedUsers = []int64{}
	}
	if resp.HiddenDates == nil {
		resp.HiddenDates = []string{}
	}
	return resp
}
