package usecase_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locker_backend/internal/feature/admin/usecase"
	lockerentity "locker_backend/internal/feature/lockers/domain/entity"
	pkgentity "locker_backend/internal/feature/packages/domain/entity"
)

// mockReportRepository は ReportRepository のテスト用モックです。
type mockReportRepository struct {
	ListAllLockersFunc  func(ctx context.Context) ([]lockerentity.Locker, error)
	ListAllPackagesFunc func(ctx context.Context) ([]pkgentity.Package, error)
}

func (m *mockReportRepository) ListAllLockers(ctx context.Context) ([]lockerentity.Locker, error) {
	return m.ListAllLockersFunc(ctx)
}

func (m *mockReportRepository) ListAllPackages(ctx context.Context) ([]pkgentity.Package, error) {
	return m.ListAllPackagesFunc(ctx)
}

func TestReportsUsecase_WriteLockersCSV(t *testing.T) {
	t.Run("ヘッダーと各ロッカー行を出力する", func(t *testing.T) {
		reservedBy := uint(42)
		expires := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
		repo := &mockReportRepository{
			ListAllLockersFunc: func(ctx context.Context) ([]lockerentity.Locker, error) {
				return []lockerentity.Locker{
					{
						ID:        1,
						GroupID:   1,
						Status:    lockerentity.StatusFree,
						UpdatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
					},
					{
						ID:                   2,
						GroupID:              1,
						Status:               lockerentity.StatusReserved,
						ReservedBy:           &reservedBy,
						ReservationExpiresAt: &expires,
						LastAction:           lockerentity.ActionOpen,
						UpdatedAt:            time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}
		u := usecase.NewReportsUsecase(repo)

		var buf bytes.Buffer
		err := u.WriteLockersCSV(context.Background(), &buf)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "id,group_id,status,reserved_by,reservation_expires_at,last_action,updated_at", lines[0])
		assert.Equal(t, "1,1,free,,,,2025-06-01T10:00:00Z", lines[1])
		assert.Equal(t, "2,1,reserved,42,2025-06-01T12:30:00Z,open,2025-06-01T12:00:00Z", lines[2])
	})

	t.Run("リポジトリエラーをそのまま返す", func(t *testing.T) {
		repo := &mockReportRepository{
			ListAllLockersFunc: func(ctx context.Context) ([]lockerentity.Locker, error) {
				return nil, errDB
			},
		}
		u := usecase.NewReportsUsecase(repo)

		var buf bytes.Buffer
		err := u.WriteLockersCSV(context.Background(), &buf)

		assert.ErrorIs(t, err, errDB)
		assert.Zero(t, buf.Len(), "no partial output on failure")
	})
}

func TestReportsUsecase_WritePackagesCSV(t *testing.T) {
	t.Run("ヘッダーと各荷物行を出力する", func(t *testing.T) {
		lockerID := uint(3)
		courierID := uint(9)
		repo := &mockReportRepository{
			ListAllPackagesFunc: func(ctx context.Context) ([]pkgentity.Package, error) {
				return []pkgentity.Package{
					{
						ID:                 1,
						PublicCode:         "PKG-ABCD1234",
						Status:             pkgentity.StatusDelivered,
						SenderID:           5,
						RecipientID:        6,
						OriginGroupID:      1,
						DestinationGroupID: 2,
						CurrentLockerID:    &lockerID,
						CourierID:          &courierID,
						CreatedAt:          time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
						UpdatedAt:          time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
					},
				}, nil
			},
		}
		u := usecase.NewReportsUsecase(repo)

		var buf bytes.Buffer
		err := u.WritePackagesCSV(context.Background(), &buf)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "id,package_code,status,sender_id,recipient_id,origin_group_id,destination_group_id,current_locker_id,courier_id,created_at,updated_at", lines[0])
		assert.Equal(t, "1,PKG-ABCD1234,delivered,5,6,1,2,3,9,2025-06-01T08:00:00Z,2025-06-01T09:00:00Z", lines[1])
	})

	t.Run("荷物がなければヘッダーのみ", func(t *testing.T) {
		repo := &mockReportRepository{
			ListAllPackagesFunc: func(ctx context.Context) ([]pkgentity.Package, error) {
				return nil, nil
			},
		}
		u := usecase.NewReportsUsecase(repo)

		var buf bytes.Buffer
		err := u.WritePackagesCSV(context.Background(), &buf)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Len(t, lines, 1)
	})
}
