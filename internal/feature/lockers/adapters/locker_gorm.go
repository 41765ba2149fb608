// Package adapters provides the GORM-backed store primitives for the locker
// allocation engine. Every multi-row mutation here is a single transaction:
// locker state and package state move together or not at all.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"locker_backend/internal/feature/lockers/domain/entity"
	"locker_backend/internal/feature/lockers/usecase"
	pkgentity "locker_backend/internal/feature/packages/domain/entity"
)

type lockerGorm struct {
	db *gorm.DB
}

var _ usecase.Repository = (*lockerGorm)(nil)

// NewLockerRepository は指定されたgorm.DB接続でロッカーリポジトリを生成します。
func NewLockerRepository(db *gorm.DB) *lockerGorm {
	return &lockerGorm{db: db}
}

func (r *lockerGorm) GetLocker(ctx context.Context, id uint) (*entity.Locker, error) {
	var l entity.Locker
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrLockerNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *lockerGorm) ListLockers(ctx context.Context) ([]entity.Locker, error) {
	var lockers []entity.Locker
	err := r.db.WithContext(ctx).
		Order("group_id ASC, id ASC").
		Find(&lockers).Error
	if err != nil {
		return nil, err
	}
	return lockers, nil
}

func (r *lockerGorm) FirstFreeID(ctx context.Context, groupID uint) (uint, error) {
	var l entity.Locker
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", groupID, entity.StatusFree).
		Order("id ASC").
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, usecase.ErrNoFreeLockers
		}
		return 0, err
	}
	return l.ID, nil
}

// ReserveFirstFree claims one free locker with an optimistic loop: pick the
// lowest-id free candidate, then a conditional single-row UPDATE guarded by
// status='free'. Zero rows affected means another request won that locker;
// re-select. The loop ends only when no free candidate remains, so a group
// with K free lockers satisfies exactly K concurrent reservations.
func (r *lockerGorm) ReserveFirstFree(ctx context.Context, groupID, userID uint, expiresAt time.Time) (*entity.Locker, error) {
	for {
		candidateID, err := r.FirstFreeID(ctx, groupID)
		if err != nil {
			return nil, err
		}

		res := r.db.WithContext(ctx).
			Model(&entity.Locker{}).
			Where("id = ? AND status = ?", candidateID, entity.StatusFree).
			Updates(map[string]interface{}{
				"status":                 entity.StatusReserved,
				"reserved_by":            userID,
				"reservation_expires_at": expiresAt,
				"opened_by":              userID,
				"last_action":            entity.ActionOpen,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			return r.GetLocker(ctx, candidateID)
		}
		// Lost the race for this candidate; try the next free one.
	}
}

func (r *lockerGorm) CancelReservation(ctx context.Context, lockerID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Locker{}).
		Where("id = ? AND status = ? AND reserved_by = ?", lockerID, entity.StatusReserved, userID).
		Updates(map[string]interface{}{
			"status":                 entity.StatusFree,
			"reserved_by":            nil,
			"reservation_expires_at": nil,
			"opened_by":              nil,
			"last_action":            entity.ActionCancel,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *lockerGorm) OccupyWithPackage(ctx context.Context, lockerID, userID uint, notExpiredAt time.Time, pkg *pkgentity.Package) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Locker{}).
			Where("id = ? AND status = ? AND reserved_by = ?", lockerID, entity.StatusReserved, userID).
			Where("reservation_expires_at IS NULL OR reservation_expires_at > ?", notExpiredAt).
			Updates(map[string]interface{}{
				"status":                 entity.StatusOccupied,
				"reserved_by":            nil,
				"reservation_expires_at": nil,
				"last_action":            entity.ActionSend,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrNotReservedOrExpired
		}

		if err := tx.Create(pkg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: package code already taken", usecase.ErrConflict)
			}
			return err
		}
		return nil
	})
}

func (r *lockerGorm) MarkCourierOpen(ctx context.Context, groupID, courierID uint) (int, error) {
	sub := r.db.Model(&pkgentity.Package{}).
		Select("current_locker_id").
		Where("status = ? AND current_locker_id IS NOT NULL", pkgentity.StatusCreated)

	res := r.db.WithContext(ctx).
		Model(&entity.Locker{}).
		Where("group_id = ? AND status = ? AND id IN (?)", groupID, entity.StatusOccupied, sub).
		Updates(map[string]interface{}{
			"opened_by":   courierID,
			"last_action": entity.ActionCourierOpen,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// pickupPair is one (created package, occupied locker) candidate.
type pickupPair struct {
	PackageID uint
	LockerID  uint
}

func (r *lockerGorm) PickupCreated(ctx context.Context, groupID, courierID uint) (int, error) {
	var pairs []pickupPair
	err := r.db.WithContext(ctx).
		Table("packages").
		Select("packages.id AS package_id, lockers.id AS locker_id").
		Joins("JOIN lockers ON lockers.id = packages.current_locker_id").
		Where("packages.status = ? AND lockers.group_id = ? AND lockers.status = ?",
			pkgentity.StatusCreated, groupID, entity.StatusOccupied).
		Order("packages.id ASC").
		Scan(&pairs).Error
	if err != nil {
		return 0, err
	}

	claimed := 0
	for _, p := range pairs {
		// Per-pair transaction: a pair lost to another courier is skipped
		// silently without poisoning the rest of the batch.
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&pkgentity.Package{}).
				Where("id = ? AND status = ? AND courier_id IS NULL", p.PackageID, pkgentity.StatusCreated).
				Updates(map[string]interface{}{
					"status":            pkgentity.StatusInTransit,
					"current_locker_id": nil,
					"courier_id":        courierID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return usecase.ErrConflict
			}

			res = tx.Model(&entity.Locker{}).
				Where("id = ? AND status = ?", p.LockerID, entity.StatusOccupied).
				Updates(map[string]interface{}{
					"status":      entity.StatusFree,
					"opened_by":   courierID,
					"last_action": entity.ActionPickup,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return usecase.ErrConflict
			}
			return nil
		})
		switch {
		case err == nil:
			claimed++
		case errors.Is(err, usecase.ErrConflict):
			// Another courier claimed this package first. Skip.
		default:
			return claimed, err
		}
	}

	if claimed == 0 {
		return 0, usecase.ErrNothingReady
	}
	return claimed, nil
}

func (r *lockerGorm) CountAssignedInTransit(ctx context.Context, groupID, courierID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&pkgentity.Package{}).
		Where("status = ? AND destination_group_id = ? AND courier_id = ?",
			pkgentity.StatusInTransit, groupID, courierID).
		Count(&count).Error
	return int(count), err
}

func (r *lockerGorm) ReserveForDelivery(ctx context.Context, groupID, courierID uint, need int, expiresAt time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var free []entity.Locker
		if err := tx.
			Where("group_id = ? AND status = ?", groupID, entity.StatusFree).
			Order("id ASC").
			Limit(need).
			Find(&free).Error; err != nil {
			return err
		}
		if len(free) < need {
			return usecase.ErrNotEnoughFreeLockers
		}

		ids = make([]uint, 0, need)
		for _, l := range free {
			ids = append(ids, l.ID)
		}

		res := tx.Model(&entity.Locker{}).
			Where("id IN ? AND status = ?", ids, entity.StatusFree).
			Updates(map[string]interface{}{
				"status":                 entity.StatusReserved,
				"reserved_by":            courierID,
				"reservation_expires_at": expiresAt,
				"opened_by":              courierID,
				"last_action":            entity.ActionDeliveryOpen,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(need) {
			// A locker was claimed between the SELECT and the UPDATE.
			return usecase.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *lockerGorm) DeliverAssigned(ctx context.Context, groupID, courierID uint) (int, error) {
	delivered := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pkgs []pkgentity.Package
		if err := tx.
			Where("status = ? AND destination_group_id = ? AND courier_id = ?",
				pkgentity.StatusInTransit, groupID, courierID).
			Order("updated_at ASC").
			Find(&pkgs).Error; err != nil {
			return err
		}
		if len(pkgs) == 0 {
			return usecase.ErrNoAssignedPackages
		}

		var reserved []entity.Locker
		if err := tx.
			Where("group_id = ? AND status = ? AND last_action = ? AND reserved_by = ?",
				groupID, entity.StatusReserved, entity.ActionDeliveryOpen, courierID).
			Order("id ASC").
			Find(&reserved).Error; err != nil {
			return err
		}
		if len(reserved) < len(pkgs) {
			return usecase.ErrNotEnoughReservedLockers
		}

		for i, pkg := range pkgs {
			locker := reserved[i]

			res := tx.Model(&entity.Locker{}).
				Where("id = ? AND status = ?", locker.ID, entity.StatusReserved).
				Updates(map[string]interface{}{
					"status":                 entity.StatusOccupied,
					"reserved_by":            nil,
					"reservation_expires_at": nil,
					"last_action":            entity.ActionDelivery,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return usecase.ErrConflict
			}

			res = tx.Model(&pkgentity.Package{}).
				Where("id = ? AND status = ?", pkg.ID, pkgentity.StatusInTransit).
				Updates(map[string]interface{}{
					"status":            pkgentity.StatusDelivered,
					"current_locker_id": locker.ID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return usecase.ErrConflict
			}
			delivered++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return delivered, nil
}

func (r *lockerGorm) ReceiveOldest(ctx context.Context, userID uint) (*pkgentity.Package, error) {
	var pkg pkgentity.Package
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ? AND current_locker_id IS NOT NULL",
			userID, pkgentity.StatusDelivered).
		Order("updated_at ASC").
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNothingWaiting
		}
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Defensive check against state drift: the locker must still be
		// occupied before it is handed over.
		res := tx.Model(&entity.Locker{}).
			Where("id = ? AND status = ?", *pkg.CurrentLockerID, entity.StatusOccupied).
			Updates(map[string]interface{}{
				"status":      entity.StatusFree,
				"opened_by":   userID,
				"last_action": entity.ActionReceive,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrConflict
		}

		res = tx.Model(&pkgentity.Package{}).
			Where("id = ? AND status = ?", pkg.ID, pkgentity.StatusDelivered).
			Updates(map[string]interface{}{
				"status":            pkgentity.StatusReceived,
				"current_locker_id": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pkg.Status = pkgentity.StatusReceived
	pkg.CurrentLockerID = nil
	return &pkg, nil
}

func (r *lockerGorm) Transition(ctx context.Context, lockerID uint, from []entity.Status, to entity.Status, actorID uint, action string) error {
	locker, err := r.GetLocker(ctx, lockerID)
	if err != nil {
		return err
	}

	allowed := false
	for _, s := range from {
		if locker.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: locker %d is %s", usecase.ErrInvalidState, lockerID, locker.Status)
	}

	res := r.db.WithContext(ctx).
		Model(&entity.Locker{}).
		Where("id = ? AND status = ?", lockerID, locker.Status).
		Updates(map[string]interface{}{
			"status":                 to,
			"reserved_by":            nil,
			"reservation_expires_at": nil,
			"opened_by":              actorID,
			"last_action":            action,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrConflict
	}
	return nil
}

func (r *lockerGorm) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Locker{}).
		Where("status = ? AND reservation_expires_at IS NOT NULL AND reservation_expires_at <= ?",
			entity.StatusReserved, now).
		Updates(map[string]interface{}{
			"status":                 entity.StatusFree,
			"reserved_by":            nil,
			"reservation_expires_at": nil,
			"last_action":            entity.ActionReservationExpired,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
