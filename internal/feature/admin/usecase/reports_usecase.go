package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	lockerentity "locker_backend/internal/feature/lockers/domain/entity"
	pkgentity "locker_backend/internal/feature/packages/domain/entity"
)

// ReportRepository abstracts the full-table reads the CSV exports need.
type ReportRepository interface {
	ListAllLockers(ctx context.Context) ([]lockerentity.Locker, error)
	ListAllPackages(ctx context.Context) ([]pkgentity.Package, error)
}

// ReportsUsecase produces the operational CSV exports.
type ReportsUsecase struct {
	repo ReportRepository
}

// NewReportsUsecase creates a ReportsUsecase with the given repository.
func NewReportsUsecase(repo ReportRepository) *ReportsUsecase {
	return &ReportsUsecase{repo: repo}
}

func formatOptionalID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// WriteLockersCSV streams the locker inventory as CSV.
func (u *ReportsUsecase) WriteLockersCSV(ctx context.Context, w io.Writer) error {
	lockers, err := u.repo.ListAllLockers(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "group_id", "status", "reserved_by", "reservation_expires_at", "last_action", "updated_at"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, l := range lockers {
		record := []string{
			strconv.FormatUint(uint64(l.ID), 10),
			strconv.FormatUint(uint64(l.GroupID), 10),
			string(l.Status),
			formatOptionalID(l.ReservedBy),
			formatOptionalTime(l.ReservationExpiresAt),
			l.LastAction,
			l.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePackagesCSV streams the package ledger as CSV.
func (u *ReportsUsecase) WritePackagesCSV(ctx context.Context, w io.Writer) error {
	pkgs, err := u.repo.ListAllPackages(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "package_code", "status", "sender_id", "recipient_id", "origin_group_id", "destination_group_id", "current_locker_id", "courier_id", "created_at", "updated_at"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, p := range pkgs {
		record := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.PublicCode,
			string(p.Status),
			strconv.FormatUint(uint64(p.SenderID), 10),
			strconv.FormatUint(uint64(p.RecipientID), 10),
			strconv.FormatUint(uint64(p.OriginGroupID), 10),
			strconv.FormatUint(uint64(p.DestinationGroupID), 10),
			formatOptionalID(p.CurrentLockerID),
			formatOptionalID(p.CourierID),
			p.CreatedAt.UTC().Format(time.RFC3339),
			p.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
