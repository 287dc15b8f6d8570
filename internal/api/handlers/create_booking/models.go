package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	createBooking "github.com/m04kA/SMC-CalendarService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CalendarService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	OwnerID   int64   `json:"ownerId"`
	JobID     int64   `json:"jobId"`
	Date      string  `json:"date"`      // "2026-09-15"
	StartTime string  `json:"startTime"` // "10:00"
	EndTime   string  `json:"endTime"`   // "12:00"
	Notes     *string `json:"notes,omitempty"`

	// Fallback-данные на случай деградации JobService
	ClientName  *string  `json:"clientName,omitempty"`
	RatePerHour *float64 `json:"ratePerHour,omitempty"`
}

// ConflictResponse HTTP модель зафиксированного конфликта
type ConflictResponse struct {
	ConflictID           string `json:"conflictId"`
	Type                 string `json:"conflictType"`
	ConflictingBookingID string `json:"conflictingBookingId"`
	StartTime            string `json:"startTime"`
	EndTime              string `json:"endTime"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          string             `json:"id"`
	Status      string             `json:"status"`
	OwnerID     int64              `json:"ownerId"`
	ClientID    int64              `json:"clientId"`
	JobID       int64              `json:"jobId"`
	Date        string             `json:"date"`
	StartTime   string             `json:"startTime"`
	EndTime     string             `json:"endTime"`
	ClientName  string             `json:"clientName"`
	RatePerHour float64            `json:"ratePerHour"`
	Notes       *string            `json:"notes,omitempty"`
	Degraded    bool               `json:"degraded,omitempty"`
	Conflicts   []ConflictResponse `json:"conflicts,omitempty"`
	CreatedAt   string             `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		OwnerID:     r.OwnerID,
		ClientID:    clientID,
		JobID:       r.JobID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Notes:       r.Notes,
		ClientName:  r.ClientName,
		RatePerHour: r.RatePerHour,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	conflicts := make([]ConflictResponse, 0, len(resp.Conflicts))
	for _, c := range resp.Conflicts {
		conflicts = append(conflicts, ConflictResponse{
			ConflictID:           c.ConflictID,
			Type:                 string(c.Type),
			ConflictingBookingID: c.ConflictingBookingID,
			StartTime:            c.StartTime.String(),
			EndTime:              c.EndTime.String(),
		})
	}

	return &BookingResponse{
		ID:          resp.ID,
		Status:      string(resp.Status),
		OwnerID:     resp.OwnerID,
		ClientID:    resp.ClientID,
		JobID:       resp.JobID,
		Date:        resp.Date.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		EndTime:     resp.EndTime.String(),
		ClientName:  resp.ClientName,
		RatePerHour: resp.RatePerHour,
		Notes:       resp.Notes,
		Degraded:    resp.Degraded,
		Conflicts:   conflicts,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
