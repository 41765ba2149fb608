package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"locker_backend/internal/api"
	"locker_backend/internal/feature/lockers/transport/http/dto"
	jwtmw "locker_backend/internal/platform/jwt"
)

// CourierHandler handles the courier-side locker operations.
type CourierHandler struct {
	engine EngineUsecase
}

// NewCourierHandler creates a CourierHandler with the given engine.
func NewCourierHandler(engine EngineUsecase) *CourierHandler {
	return &CourierHandler{engine: engine}
}

// bindGroupOp extracts the caller id and the groupId body shared by every
// courier operation. Returns false after writing the error response.
func bindGroupOp(c *gin.Context) (courierID, groupID uint, ok bool) {
	courierID, found := jwtmw.CallerID(c)
	if !found {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return 0, 0, false
	}
	var req dto.GroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing groupId"})
		return 0, 0, false
	}
	return courierID, req.GroupID, true
}

// Open stamps the audit trail on every locker ready for pickup in the group.
func (h *CourierHandler) Open(c *gin.Context) {
	courierID, groupID, ok := bindGroupOp(c)
	if !ok {
		return
	}

	count, err := h.engine.CourierOpenLockers(c.Request.Context(), groupID, courierID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	slog.Info("lockers opened for pickup", "group_id", groupID, "courier_id", courierID, "count", count)
	c.JSON(http.StatusOK, api.CountResponse{Count: count})
}

// Pickup collects every ready package in the group.
func (h *CourierHandler) Pickup(c *gin.Context) {
	courierID, groupID, ok := bindGroupOp(c)
	if !ok {
		return
	}

	count, err := h.engine.CourierPickup(c.Request.Context(), groupID, courierID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	slog.Info("packages picked up", "group_id", groupID, "courier_id", courierID, "count", count)
	c.JSON(http.StatusOK, api.CountResponse{Count: count})
}

// DeliveryOpen reserves one destination locker per package the courier is
// bringing to the group.
func (h *CourierHandler) DeliveryOpen(c *gin.Context) {
	courierID, groupID, ok := bindGroupOp(c)
	if !ok {
		return
	}

	ids, err := h.engine.CourierOpenForDelivery(c.Request.Context(), groupID, courierID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	slog.Info("lockers opened for delivery", "group_id", groupID, "courier_id", courierID, "count", len(ids))
	c.JSON(http.StatusOK, dto.DeliveryOpenResponse{LockerIDs: ids})
}

// Deliver places the courier's packages into the reserved lockers.
func (h *CourierHandler) Deliver(c *gin.Context) {
	courierID, groupID, ok := bindGroupOp(c)
	if !ok {
		return
	}

	count, err := h.engine.CourierDeliver(c.Request.Context(), groupID, courierID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	slog.Info("packages delivered", "group_id", groupID, "courier_id", courierID, "count", count)
	c.JSON(http.StatusOK, api.CountResponse{Count: count})
}
