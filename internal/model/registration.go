package model

import (
	"time"

	"github.com/google/uuid"
)

// Registration 報名紀錄，同一活動同一參加者最多一筆
type Registration struct {
	EventID      uuid.UUID `json:"event_id" db:"event_id"`
	AttendeeID   string    `json:"attendee_id" db:"attendee_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	TicketCode   string    `json:"ticket_code" db:"ticket_code"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// Ticket 參加者的票券：活動與其報名紀錄
type Ticket struct {
	Event        *Event        `json:"event"`
	Registration *Registration `json:"registration"`
}

// RegistrationResponse 報名成功回應
type RegistrationResponse struct {
	EventID      uuid.UUID `json:"event_id"`
	TicketCode   string    `json:"ticket_code"`
	RegisteredAt string    `json:"registered_at"`
}

func (r *Registration) ToResponse() RegistrationResponse {
	return RegistrationResponse{
		EventID:      r.EventID,
		TicketCode:   r.TicketCode,
		RegisteredAt: r.RegisteredAt.UTC().Format(time.RFC3339),
	}
}
