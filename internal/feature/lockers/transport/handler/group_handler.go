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
)

// GroupUsecase defines the kiosk site operations the handlers call.
type GroupUsecase interface {
	ListGroups(ctx context.Context) ([]entity.LockerGroup, error)
	CreateGroup(ctx context.Context, name, location string, lockerCount int) (*entity.LockerGroup, error)
	AddLockers(ctx context.Context, groupID uint, count int) error
}

// GroupHandler handles kiosk site listing and administration.
type GroupHandler struct {
	groups GroupUsecase
}

// NewGroupHandler creates a GroupHandler with the given usecase.
func NewGroupHandler(groups GroupUsecase) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// List returns all kiosk sites for the map view. Any authenticated role.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.ListGroups(c.Request.Context())
	if err != nil {
		slog.Error("group listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.GroupResponse{ID: g.ID, Name: g.Name, Location: g.Location})
	}
	c.JSON(http.StatusOK, out)
}

// Create registers a new kiosk site, optionally pre-populating lockers.
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), req.Name, req.Location, req.LockerCount)
	if err != nil {
		slog.Error("group creation failed", "error", err, "name", req.Name)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	slog.Info("group created", "group_id", group.ID, "name", group.Name, "locker_count", req.LockerCount)
	c.JSON(http.StatusCreated, dto.GroupResponse{ID: group.ID, Name: group.Name, Location: group.Location})
}

// AddLockers installs additional lockers at an existing site.
func (h *GroupHandler) AddLockers(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || groupID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid group id"})
		return
	}

	var req dto.AddLockersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	if err := h.groups.AddLockers(c.Request.Context(), uint(groupID), req.Count); err != nil {
		if errors.Is(err, usecase.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("adding lockers failed", "error", err, "group_id", groupID)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	slog.Info("lockers added", "group_id", groupID, "count", req.Count)
	c.JSON(http.StatusCreated, api.CountResponse{Count: req.Count})
}
