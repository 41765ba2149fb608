// Package dto defines data transfer objects for the lockers feature's HTTP
// transport layer.
package dto

import "time"

// GroupReq addresses an operation at one kiosk site.
type GroupReq struct {
	GroupID uint `json:"groupId" binding:"required"`
}

// LockerReq addresses an operation at one locker.
type LockerReq struct {
	LockerID uint `json:"lockerId" binding:"required"`
}

// SendReq is the request body for depositing a package into a reserved locker.
type SendReq struct {
	LockerID           uint   `json:"lockerId" binding:"required"`
	DestinationGroupID uint   `json:"destinationGroupId" binding:"required"`
	RecipientEmail     string `json:"recipientEmail" binding:"required,email"`
	PackageName        string `json:"packageName"`
}

// CreateGroupReq is the request body for registering a new kiosk site.
type CreateGroupReq struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	LockerCount int    `json:"lockerCount" binding:"omitempty,min=1"`
}

// AddLockersReq is the request body for installing lockers at a site.
type AddLockersReq struct {
	Count int `json:"count" binding:"required,min=1"`
}

// ReservationResponse reports a successful locker reservation.
type ReservationResponse struct {
	LockerID  uint      `json:"lockerId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SendResponse reports a successful deposit.
type SendResponse struct {
	PackageCode string `json:"packageCode"`
	Message     string `json:"message"`
}

// ReceiveResponse reports a successful package handover.
type ReceiveResponse struct {
	PackageCode string `json:"packageCode"`
	Message     string `json:"message"`
}

// PreviewResponse names the locker a reservation would claim right now.
// LockerID is null when the group has no free locker.
type PreviewResponse struct {
	LockerID *uint `json:"lockerId"`
}

// DeliveryOpenResponse lists the lockers reserved for an incoming delivery.
type DeliveryOpenResponse struct {
	LockerIDs []uint `json:"lockerIds"`
}

// LockerResponse is one locker in the inventory listing.
type LockerResponse struct {
	ID                   uint       `json:"id"`
	GroupID              uint       `json:"groupId"`
	Status               string     `json:"status"`
	ReservedBy           *uint      `json:"reservedBy,omitempty"`
	ReservationExpiresAt *time.Time `json:"reservationExpiresAt,omitempty"`
	LastAction           string     `json:"lastAction,omitempty"`
}

// GroupResponse is one kiosk site in the public listing.
type GroupResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}
