// Package handler provides the HTTP handlers for package tracking.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"locker_backend/internal/api"
	lockerdto "locker_backend/internal/feature/lockers/transport/http/dto"
	"locker_backend/internal/feature/packages/domain/entity"
	"locker_backend/internal/feature/packages/transport/http/dto"
	"locker_backend/internal/feature/packages/usecase"
	jwtmw "locker_backend/internal/platform/jwt"
)

// TrackerUsecase defines the tracking queries the handlers call.
type TrackerUsecase interface {
	Pending(ctx context.Context, userID uint) (*usecase.PendingPickup, error)
	ActivePackages(ctx context.Context, userID uint) ([]entity.Package, error)
	History(ctx context.Context, userID uint) ([]entity.Package, error)
	StatusByGroup(ctx context.Context, groupID uint) (*usecase.GroupStatus, error)
	Track(ctx context.Context, code string) (*entity.Package, error)
}

// PackageHandler handles the read-only package tracking endpoints.
type PackageHandler struct {
	tracker TrackerUsecase
}

// NewPackageHandler creates a PackageHandler with the given tracker.
func NewPackageHandler(tracker TrackerUsecase) *PackageHandler {
	return &PackageHandler{tracker: tracker}
}

func toPackageResponse(p entity.Package) dto.PackageResponse {
	return dto.PackageResponse{
		ID:                 p.ID,
		PackageCode:        p.PublicCode,
		PackageName:        p.DisplayName,
		SenderID:           p.SenderID,
		RecipientID:        p.RecipientID,
		OriginGroupID:      p.OriginGroupID,
		DestinationGroupID: p.DestinationGroupID,
		Status:             string(p.Status),
		CurrentLockerID:    p.CurrentLockerID,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toPackageResponses(pkgs []entity.Package) []dto.PackageResponse {
	out := make([]dto.PackageResponse, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, toPackageResponse(p))
	}
	return out
}

// Pending reports whether a delivered package awaits the caller and where.
// "Nothing pending" is a normal answer, not an error.
func (h *PackageHandler) Pending(c *gin.Context) {
	userID, ok := jwtmw.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	pending, err := h.tracker.Pending(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNothingPending) {
			c.JSON(http.StatusOK, dto.PendingResponse{Pending: false})
			return
		}
		slog.Error("pending lookup failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.PendingResponse{
		Pending: true,
		Locker: &dto.PendingLocker{
			ID:          pending.LockerID,
			GroupID:     pending.GroupID,
			PackageID:   pending.PackageID,
			PackageCode: pending.PublicCode,
			Location:    pending.Location,
		},
	})
}

// Active lists the caller's in-flight packages, sent and incoming.
func (h *PackageHandler) Active(c *gin.Context) {
	userID, ok := jwtmw.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	pkgs, err := h.tracker.ActivePackages(c.Request.Context(), userID)
	if err != nil {
		slog.Error("active package listing failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, toPackageResponses(pkgs))
}

// History lists the caller's finished packages.
func (h *PackageHandler) History(c *gin.Context) {
	userID, ok := jwtmw.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	pkgs, err := h.tracker.History(c.Request.Context(), userID)
	if err != nil {
		slog.Error("package history failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, toPackageResponses(pkgs))
}

// StatusByGroup is the courier overview for one kiosk site.
func (h *PackageHandler) StatusByGroup(c *gin.Context) {
	var req lockerdto.GroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing groupId"})
		return
	}

	status, err := h.tracker.StatusByGroup(c.Request.Context(), req.GroupID)
	if err != nil {
		slog.Error("group status failed", "error", err, "group_id", req.GroupID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.GroupStatusResponse{
		GroupID:     status.GroupID,
		PickupReady: toPackageResponses(status.PickupReady),
		ToDeliver:   toPackageResponses(status.ToDeliver),
	})
}

// Track resolves one package by its public code. The route is public, so the
// response carries the tracking status only, never party or locker ids.
func (h *PackageHandler) Track(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing package code"})
		return
	}

	pkg, err := h.tracker.Track(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, usecase.ErrPackageNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("package tracking failed", "error", err, "code", code)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.TrackResponse{
		PackageCode: pkg.PublicCode,
		Status:      string(pkg.Status),
		UpdatedAt:   pkg.UpdatedAt,
	})
}
