package entities

import "time"

// Customer is a chat contact identified by phone number (or chat ID for
// non-phone channels).
type Customer struct {
	ID              int64     `json:"id"`
	PhoneNumber     string    `json:"phone_number"`
	Name            string    `json:"name,omitempty"`
	IsActive        bool      `json:"is_active"`
	TotalPurchases  int       `json:"total_purchases"`
	LastInteraction time.Time `json:"last_interaction"`
	CreatedAt       time.Time `json:"created_at"`
}
