package models

import "time"

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Venue       string      `gorm:"not null" json:"venue"`
	Description string      `json:"description,omitempty"`
	StartsAt    time.Time   `gorm:"not null" json:"starts_at"`
	EndsAt      time.Time   `gorm:"not null" json:"ends_at"`
	Status      EventStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	OrganizerID string      `gorm:"not null" json:"organizer_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Categories []TicketCategory `gorm:"foreignKey:EventID" json:"categories,omitempty"`
}

// TicketCategory is a priced tier with finite inventory. AvailableQuantity
// is decremented only inside the payment-commit transaction and restored on
// cancellation; 0 <= available <= total always holds.
type TicketCategory struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	EventID           uint      `gorm:"not null;index" json:"event_id"`
	Name              string    `gorm:"not null" json:"name"`
	UnitPrice         float64   `gorm:"not null" json:"unit_price"`
	TotalQuantity     int       `gorm:"not null" json:"total_quantity"`
	AvailableQuantity int       `gorm:"not null" json:"available_quantity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
