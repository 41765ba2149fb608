// Package handler provides the HTTP handlers for the lockers feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"locker_backend/internal/api"
	"locker_backend/internal/feature/lockers/domain/entity"
	"locker_backend/internal/feature/lockers/transport/http/dto"
	"locker_backend/internal/feature/lockers/usecase"
	jwtmw "locker_backend/internal/platform/jwt"
)

// EngineUsecase defines the locker engine operations the handlers call.
// Following Go convention: interfaces are defined by the consumer (handler),
// not the provider (usecase).
type EngineUsecase interface {
	ReserveLocker(ctx context.Context, groupID, userID uint) (*usecase.Reservation, error)
	CancelReservation(ctx context.Context, lockerID, userID uint) (bool, error)
	SendPackage(ctx context.Context, lockerID, userID, destinationGroupID uint, recipientEmail, displayName string) (string, error)
	ReceivePackage(ctx context.Context, userID uint) (string, error)
	CourierOpenLockers(ctx context.Context, groupID, courierID uint) (int, error)
	CourierPickup(ctx context.Context, groupID, courierID uint) (int, error)
	CourierOpenForDelivery(ctx context.Context, groupID, courierID uint) ([]uint, error)
	CourierDeliver(ctx context.Context, groupID, courierID uint) (int, error)
	MarkBroken(ctx context.Context, lockerID, actorID uint) error
	MarkRepaired(ctx context.Context, lockerID, actorID uint) error
	ForceOpen(ctx context.Context, lockerID, actorID uint) error
	CloseLocker(ctx context.Context, lockerID, actorID uint) error
	BlockLocker(ctx context.Context, lockerID, actorID uint) error
	UnblockLocker(ctx context.Context, lockerID, actorID uint) error
	ListLockers(ctx context.Context) ([]entity.Locker, error)
	PreviewFreeLocker(ctx context.Context, groupID uint) (uint, error)
}

// LockerHandler handles the end-user locker operations.
type LockerHandler struct {
	engine EngineUsecase
}

// NewLockerHandler creates a LockerHandler with the given engine.
func NewLockerHandler(engine EngineUsecase) *LockerHandler {
	return &LockerHandler{engine: engine}
}

// respondEngineError maps engine sentinels to HTTP statuses. Not-found,
// invalid-state and lost-race conditions stay distinguishable for clients.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrLockerNotFound),
		errors.Is(err, usecase.ErrGroupNotFound),
		errors.Is(err, usecase.ErrRecipientNotFound),
		errors.Is(err, usecase.ErrNothingReady),
		errors.Is(err, usecase.ErrNothingWaiting),
		errors.Is(err, usecase.ErrNoAssignedPackages):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrNoFreeLockers),
		errors.Is(err, usecase.ErrNotEnoughFreeLockers),
		errors.Is(err, usecase.ErrNotEnoughReservedLockers),
		errors.Is(err, usecase.ErrNotReservedOrExpired),
		errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrConflict):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("locker operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

// Reserve claims one free locker in the requested group for the caller.
func (h *LockerHandler) Reserve(c *gin.Context) {
	userID, ok := jwtmw.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.GroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing groupId"})
		return
	}

	res, err := h.engine.ReserveLocker(c.Request.Context(), req.GroupID, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	slog.Info("locker reserved", "locker_id", res.LockerID, "user_id", userID)
	c.JSON(http.StatusOK, dto.ReservationResponse{LockerID: res.LockerID, ExpiresAt: res.ExpiresAt})
}

// Cancel releases the caller's reservation. Cancelling a locker that is no
// longer held still returns 200.
func (h *LockerHandler) Cancel(c *gin.Context) {
	userID, ok := jwtmw.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.LockerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing lockerId"})
		return
	}

	changed, err := h.engine.CancelReservation(c.Request.Context(), req.LockerID, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if changed {
		c.JSON(http.StatusOK, api.MessageResponse{Message: "reservation cancelled"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "nothing to cancel"})
}

// Send deposits a package into the caller's reserved locker.
func (h *LockerHandler) Send(c *gin.Context) {
	userID, ok := jwtmw.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.SendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	code, err := h.engine.SendPackage(c.Request.Context(),
		req.LockerID, userID, req.DestinationGroupID, req.RecipientEmail, req.PackageName)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	slog.Info("package sent", "package_code", code, "locker_id", req.LockerID, "user_id", userID)
	c.JSON(http.StatusOK, dto.SendResponse{PackageCode: code, Message: "Package successfully sent"})
}

// Receive hands the caller their earliest delivered package.
func (h *LockerHandler) Receive(c *gin.Context) {
	userID, ok := jwtmw.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	code, err := h.engine.ReceivePackage(c.Request.Context(), userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	slog.Info("package received", "package_code", code, "user_id", userID)
	c.JSON(http.StatusOK, dto.ReceiveResponse{PackageCode: code, Message: "Package received"})
}

// Preview reports which locker a reservation in the group would claim right
// now, without claiming it. An empty group is not an error: lockerId is null.
func (h *LockerHandler) Preview(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("groupId"), 10, 32)
	if err != nil || groupID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid group id"})
		return
	}

	lockerID, err := h.engine.PreviewFreeLocker(c.Request.Context(), uint(groupID))
	if err != nil {
		if errors.Is(err, usecase.ErrNoFreeLockers) {
			c.JSON(http.StatusOK, dto.PreviewResponse{})
			return
		}
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PreviewResponse{LockerID: &lockerID})
}

// List returns the full locker inventory for staff views.
func (h *LockerHandler) List(c *gin.Context) {
	lockers, err := h.engine.ListLockers(c.Request.Context())
	if err != nil {
		respondEngineError(c, err)
		return
	}

	out := make([]dto.LockerResponse, 0, len(lockers))
	for _, l := range lockers {
		out = append(out, dto.LockerResponse{
			ID:                   l.ID,
			GroupID:              l.GroupID,
			Status:               string(l.Status),
			ReservedBy:           l.ReservedBy,
			ReservationExpiresAt: l.ReservationExpiresAt,
			LastAction:           l.LastAction,
		})
	}
	c.JSON(http.StatusOK, out)
}
