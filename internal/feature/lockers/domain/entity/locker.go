// Package entity defines the domain entities for the lockers feature:
// physical lockers and the kiosk sites (groups) that contain them.
package entity

import "time"

// Status is the state of a physical locker.
type Status string

// Locker state machine values. Every locker starts as StatusFree.
const (
	StatusFree     Status = "free"
	StatusReserved Status = "reserved"
	StatusOccupied Status = "occupied"
	StatusBroken   Status = "broken"
	StatusBlocked  Status = "blocked"
	StatusOpen     Status = "open"
)

// Audit tags written to Locker.LastAction on each transition.
// The vocabulary is part of the operational contract: the sweeper and the
// delivery flow select on ActionDeliveryOpen / ActionReservationExpired.
const (
	ActionOpen               = "open"
	ActionCancel             = "cancel"
	ActionSend               = "send"
	ActionCourierOpen        = "courierOpen"
	ActionPickup             = "pickup"
	ActionDeliveryOpen       = "deliveryOpen"
	ActionDelivery           = "delivery"
	ActionReceive            = "receive"
	ActionReservationExpired = "reservationExpired"
	ActionBroken             = "broken"
	ActionRepaired           = "repaired"
	ActionForceOpen          = "forceOpen"
	ActionClose              = "close"
	ActionBlock              = "block"
	ActionUnblock            = "unblock"
)

// LockerGroup is one physical kiosk site containing multiple lockers.
type LockerGroup struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`

	// Location is a free-text geocoordinate string for map display.
	Location string `gorm:"size:255"`
}

// TableName keeps the original snake_case table name.
func (LockerGroup) TableName() string {
	return "locker_groups"
}

// Locker is one physical compartment.
//
// Invariants:
//   - ReservedBy is non-nil iff Status == StatusReserved.
//   - ReservationExpiresAt is non-nil only while reserved.
//   - At most one package references the locker via its CurrentLockerID.
type Locker struct {
	ID      uint `gorm:"primaryKey"`
	GroupID uint `gorm:"not null;index"`

	Status Status `gorm:"size:16;not null;default:free"`

	// ReservedBy is the user (or courier, for delivery reservations)
	// currently holding the locker.
	ReservedBy           *uint
	ReservationExpiresAt *time.Time

	// OpenedBy records the last actor that operated the locker.
	OpenedBy *uint

	// LastAction is the audit tag of the last transition.
	LastAction string `gorm:"size:32"`

	UpdatedAt time.Time
}
