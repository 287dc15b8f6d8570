package create_pattern

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// SlotTemplateRequest HTTP модель шаблона слота
type SlotTemplateRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// PatternRequest HTTP модель запроса на создание паттерна
type PatternRequest struct {
	Name           string                           `json:"name"`
	Type           string                           `json:"type"`
	Schedule       map[string][]SlotTemplateRequest `json:"schedule"`
	ValidFrom      string                           `json:"validFrom"`
	ValidUntil     *string                          `json:"validUntil,omitempty"`
	ExceptionDates []string                         `json:"exceptionDates,omitempty"`
}

// ToDomain конвертирует HTTP модель в доменный паттерн
func (r *PatternRequest) ToDomain(userID int64) (*domain.RecurringPattern, error) {
	validFrom, err := time.Parse(domain.DateFormat, r.ValidFrom)
	if err != nil {
		return nil, err
	}

	var validUntil *time.Time
	if r.ValidUntil != nil {
		parsed, err := time.Parse(domain.DateFormat, *r.ValidUntil)
		if err != nil {
			return nil, err
		}
		validUntil = &parsed
	}

	schedule := make(map[string][]domain.SlotTemplate, len(r.Schedule))
	for key, templates := range r.Schedule {
		converted := make([]domain.SlotTemplate, 0, len(templates))
		for _, tpl := range templates {
			start, err := types.NewTimeStringFromString(tpl.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := types.NewTimeStringFromString(tpl.EndTime)
			if err != nil {
				return nil, err
			}
			converted = append(converted, domain.SlotTemplate{StartTime: start, EndTime: end})
		}
		schedule[key] = converted
	}

	return &domain.RecurringPattern{
		UserID:         userID,
		Name:           r.Name,
		Type:           domain.PatternType(r.Type),
		Schedule:       schedule,
		ValidFrom:      validFrom,
		ValidUntil:     validUntil,
		ExceptionDates: r.ExceptionDates,
	}, nil
}

// PatternResponse HTTP модель паттерна
type PatternResponse struct {
	ID             string                           `json:"id"`
	UserID         int64                            `json:"userId"`
	Name           string                           `json:"name"`
	Type           string                           `json:"type"`
	Schedule       map[string][]SlotTemplateRequest `json:"schedule"`
	ValidFrom      string                           `json:"validFrom"`
	ValidUntil     *string                          `json:"validUntil,omitempty"`
	ExceptionDates []string                         `json:"exceptionDates,omitempty"`
	IsActive       bool                             `json:"isActive"`
	CreatedAt      string                           `json:"createdAt"`
	UpdatedAt      string                           `json:"updatedAt"`
}

// FromDomain конвертирует доменный паттерн в HTTP модель
func FromDomain(p *domain.RecurringPattern) *PatternResponse {
	schedule := make(map[string][]SlotTemplateRequest, len(p.Schedule))
	for key, templates := range p.Schedule {
		converted := make([]SlotTemplateRequest, 0, len(templates))
		for _, tpl := range templates {
			converted = append(converted, SlotTemplateRequest{
				StartTime: tpl.StartTime.String(),
				EndTime:   tpl.EndTime.String(),
			})
		}
		schedule[key] = converted
	}

	var validUntil *string
	if p.ValidUntil != nil {
		formatted := p.ValidUntil.Format(domain.DateFormat)
		validUntil = &formatted
	}

	return &PatternResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Type:           string(p.Type),
		Schedule:       schedule,
		ValidFrom:      p.ValidFrom.Format(domain.DateFormat),
		ValidUntil:     validUntil,
		ExceptionDates: p.ExceptionDates,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}
