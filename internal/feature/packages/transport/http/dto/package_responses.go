// Package dto defines data transfer objects for the packages feature's HTTP
// transport layer.
package dto

import "time"

// PendingResponse reports whether a delivered package awaits the caller.
type PendingResponse struct {
	Pending bool           `json:"pending"`
	Locker  *PendingLocker `json:"locker,omitempty"`
}

// PendingLocker describes where the pending package waits.
type PendingLocker struct {
	ID          uint   `json:"id"`
	GroupID     uint   `json:"groupId"`
	PackageID   uint   `json:"packageId"`
	PackageCode string `json:"packageCode"`
	Location    string `json:"location"`
}

// PackageResponse is one package in a listing.
type PackageResponse struct {
	ID                 uint      `json:"id"`
	PackageCode        string    `json:"packageCode"`
	PackageName        string    `json:"packageName,omitempty"`
	SenderID           uint      `json:"senderId"`
	RecipientID        uint      `json:"recipientId"`
	OriginGroupID      uint      `json:"originGroupId"`
	DestinationGroupID uint      `json:"destinationGroupId"`
	Status             string    `json:"status"`
	CurrentLockerID    *uint     `json:"currentLockerId,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TrackResponse is the public tracking view of a package. The endpoint is
// unauthenticated, so nothing beyond the code and its progress is exposed.
type TrackResponse struct {
	PackageCode string    `json:"packageCode"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GroupStatusResponse is the courier's work overview for one kiosk site.
type GroupStatusResponse struct {
	GroupID     uint              `json:"groupId"`
	PickupReady []PackageResponse `json:"pickupReady"`
	ToDeliver   []PackageResponse `json:"toDeliver"`
}
