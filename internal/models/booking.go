package models

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	ReferenceCode  string        `gorm:"uniqueIndex;not null" json:"reference_code"`
	CustomerID     string        `gorm:"not null;index" json:"customer_id"`
	EventID        uint          `gorm:"not null;index" json:"event_id"`
	TotalAmount    float64       `gorm:"not null" json:"total_amount"`
	DiscountAmount float64       `gorm:"not null" json:"discount_amount"`
	FinalAmount    float64       `gorm:"not null" json:"final_amount"`
	CampaignID     *uint         `json:"campaign_id,omitempty"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod  string        `json:"payment_method,omitempty"`
	TransactionID  string        `json:"transaction_id,omitempty"`
	Status         BookingStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Event   *Event          `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Details []BookingDetail `gorm:"foreignKey:BookingID" json:"details,omitempty"`
}

type BookingDetail struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	BookingID        uint      `gorm:"not null;index" json:"booking_id"`
	TicketCategoryID uint      `gorm:"not null" json:"ticket_category_id"`
	Quantity         int       `gorm:"not null" json:"quantity"`
	UnitPrice        float64   `gorm:"not null" json:"unit_price"`
	TotalPrice       float64   `gorm:"not null" json:"total_price"`
	CreatedAt        time.Time `json:"created_at"`

	Tickets []Ticket `gorm:"foreignKey:BookingDetailID" json:"tickets,omitempty"`
}

type Ticket struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BookingDetailID uint      `gorm:"not null;index" json:"booking_detail_id"`
	TicketNumber    string    `gorm:"uniqueIndex;not null" json:"ticket_number"`
	QRPayload       string    `gorm:"not null" json:"qr_payload"`
	IsUsed          bool      `gorm:"not null;default:false" json:"is_used"`
	CreatedAt       time.Time `json:"created_at"`
}
