package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"locker_backend/internal/api"
	"locker_backend/internal/feature/lockers/transport/http/dto"
	jwtmw "locker_backend/internal/platform/jwt"
)

// ServiceHandler handles the maintenance transitions performed by service
// staff (and admins).
type ServiceHandler struct {
	engine EngineUsecase
}

// NewServiceHandler creates a ServiceHandler with the given engine.
func NewServiceHandler(engine EngineUsecase) *ServiceHandler {
	return &ServiceHandler{engine: engine}
}

// transition runs one guarded maintenance transition with uniform
// bind/identity/error handling.
func (h *ServiceHandler) transition(c *gin.Context, name string, op func(ctx context.Context, lockerID, actorID uint) error) {
	actorID, ok := jwtmw.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.LockerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing lockerId"})
		return
	}

	if err := op(c.Request.Context(), req.LockerID, actorID); err != nil {
		respondEngineError(c, err)
		return
	}
	slog.Info("locker maintenance transition", "action", name, "locker_id", req.LockerID, "actor_id", actorID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}

// MarkBroken takes a free locker out of service.
func (h *ServiceHandler) MarkBroken(c *gin.Context) {
	h.transition(c, "broken", h.engine.MarkBroken)
}

// MarkRepaired returns a broken locker to service.
func (h *ServiceHandler) MarkRepaired(c *gin.Context) {
	h.transition(c, "repaired", h.engine.MarkRepaired)
}

// ForceOpen is the emergency override for stuck lockers.
func (h *ServiceHandler) ForceOpen(c *gin.Context) {
	h.transition(c, "forceOpen", h.engine.ForceOpen)
}

// Close closes a force-opened locker back to free.
func (h *ServiceHandler) Close(c *gin.Context) {
	h.transition(c, "close", h.engine.CloseLocker)
}

// Block puts an administrative hold on a free locker.
func (h *ServiceHandler) Block(c *gin.Context) {
	h.transition(c, "block", h.engine.BlockLocker)
}

// Unblock lifts an administrative hold.
func (h *ServiceHandler) Unblock(c *gin.Context) {
	h.transition(c, "unblock", h.engine.UnblockLocker)
}
