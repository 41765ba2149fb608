// Package handler exposes the administrative HTTP endpoints.
package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"locker_backend/internal/api"
	"locker_backend/internal/feature/admin/transport/http/dto"
	"locker_backend/internal/feature/admin/usecase"
	"locker_backend/internal/feature/auth/domain/entity"
)

// AdminUsecase defines the account administration operations the handlers call.
type AdminUsecase interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
	SetRole(ctx context.Context, email string, role entity.Role) error
	CreateStaff(ctx context.Context, email, password, firstName, lastName string, role entity.Role) error
	DeleteUser(ctx context.Context, id uint) error
}

// ReportsUsecase defines the CSV export operations.
type ReportsUsecase interface {
	WriteLockersCSV(ctx context.Context, w io.Writer) error
	WritePackagesCSV(ctx context.Context, w io.Writer) error
}

// AdminHandler handles account administration and operational reports.
type AdminHandler struct {
	admin   AdminUsecase
	reports ReportsUsecase
}

// NewAdminHandler creates an AdminHandler with the given usecases.
func NewAdminHandler(admin AdminUsecase, reports ReportsUsecase) *AdminHandler {
	return &AdminHandler{admin: admin, reports: reports}
}

// ListUsers returns every account, without password hashes.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("user listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			Role:      string(u.Role),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			CreatedAt: u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// SetRole changes an account's role, addressed by email.
func (h *AdminHandler) SetRole(c *gin.Context) {
	var req dto.SetRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	err := h.admin.SetRole(c.Request.Context(), req.Email, entity.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrEscalationDisabled):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("role change failed", "error", err, "email", req.Email)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		}
		return
	}

	slog.Info("role changed", "email", req.Email, "role", req.Role)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "role updated"})
}

// CreateStaff registers a courier or service account.
func (h *AdminHandler) CreateStaff(c *gin.Context) {
	var req dto.CreateStaffReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	err := h.admin.CreateStaff(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName, entity.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("staff creation failed", "error", err, "email", req.Email)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		}
		return
	}

	slog.Info("staff account created", "email", req.Email, "role", req.Role)
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "staff account created"})
}

// DeleteUser removes an account by id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user id"})
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), uint(userID)); err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, usecase.ErrCannotDeleteAdmin),
			errors.Is(err, usecase.ErrUserHasActivePackages):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			slog.Error("user deletion failed", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		}
		return
	}

	slog.Info("user deleted", "user_id", userID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "user deleted"})
}

// LockersReport streams the locker inventory as a CSV download.
func (h *AdminHandler) LockersReport(c *gin.Context) {
	h.writeCSV(c, "lockers.csv", h.reports.WriteLockersCSV)
}

// PackagesReport streams the package ledger as a CSV download.
func (h *AdminHandler) PackagesReport(c *gin.Context) {
	h.writeCSV(c, "packages.csv", h.reports.WritePackagesCSV)
}

func (h *AdminHandler) writeCSV(c *gin.Context, filename string, write func(ctx context.Context, w io.Writer) error) {
	// Buffered so a mid-export failure yields a clean error response
	// instead of a truncated CSV body.
	var buf bytes.Buffer
	if err := write(c.Request.Context(), &buf); err != nil {
		slog.Error("report export failed", "error", err, "report", filename)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
