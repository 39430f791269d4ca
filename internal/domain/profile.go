package domain

import "time"

// BusinessProfile holds the business details shown on invoices and the
// profile page. One profile exists per owner.
type BusinessProfile struct {
	OwnerID      string
	BusinessName string
	Address      string
	Whatsapp     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
