// Package entity defines the package (logical shipment) entity.
package entity

import "time"

// Status is the lifecycle state of a shipment.
type Status string

// Package lifecycle values.
//
// A package sits in a physical locker only while StatusCreated (origin side)
// or StatusDelivered (destination side); CurrentLockerID is nil otherwise.
const (
	StatusCreated   Status = "created"
	StatusInTransit Status = "inTransit"
	StatusDelivered Status = "delivered"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// TerminalStatuses are the states a package never leaves.
var TerminalStatuses = []Status{StatusReceived, StatusCancelled}

// Package is a logical shipment tracked across locker groups, independent of
// which physical locker currently holds it.
type Package struct {
	ID uint `gorm:"primaryKey"`

	// PublicCode is the human-facing identifier ("PKG-XXXXXXXX"),
	// distinct from the row id and globally unique.
	PublicCode string `gorm:"column:package_code;uniqueIndex;size:32;not null"`

	// DisplayName is an optional sender-supplied label.
	DisplayName string `gorm:"size:255"`

	SenderID    uint `gorm:"not null;index"`
	RecipientID uint `gorm:"not null;index"`

	OriginGroupID      uint `gorm:"not null"`
	DestinationGroupID uint `gorm:"not null;index"`

	Status Status `gorm:"size:16;not null;index"`

	// CurrentLockerID points at the locker physically holding the package.
	CurrentLockerID *uint `gorm:"uniqueIndex"`

	// CourierID is set exactly once, at pickup, and never reset.
	CourierID *uint `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
