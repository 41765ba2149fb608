package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"locker_backend/internal/feature/lockers/domain/entity"
	"locker_backend/internal/feature/lockers/usecase"
	pkgentity "locker_backend/internal/feature/packages/domain/entity"
	"locker_backend/internal/shared/clock"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockRepository はRepositoryインターフェースのモック実装です。
type mockRepository struct {
	GetLockerFunc             func(ctx context.Context, id uint) (*entity.Locker, error)
	ListLockersFunc           func(ctx context.Context) ([]entity.Locker, error)
	FirstFreeIDFunc           func(ctx context.Context, groupID uint) (uint, error)
	ReserveFirstFreeFunc      func(ctx context.Context, groupID, userID uint, expiresAt time.Time) (*entity.Locker, error)
	CancelReservationFunc     func(ctx context.Context, lockerID, userID uint) (bool, error)
	OccupyWithPackageFunc     func(ctx context.Context, lockerID, userID uint, notExpiredAt time.Time, pkg *pkgentity.Package) error
	MarkCourierOpenFunc       func(ctx context.Context, groupID, courierID uint) (int, error)
	PickupCreatedFunc         func(ctx context.Context, groupID, courierID uint) (int, error)
	CountAssignedFunc         func(ctx context.Context, groupID, courierID uint) (int, error)
	ReserveForDeliveryFunc    func(ctx context.Context, groupID, courierID uint, need int, expiresAt time.Time) ([]uint, error)
	DeliverAssignedFunc       func(ctx context.Context, groupID, courierID uint) (int, error)
	ReceiveOldestFunc         func(ctx context.Context, userID uint) (*pkgentity.Package, error)
	TransitionFunc            func(ctx context.Context, lockerID uint, from []entity.Status, to entity.Status, actorID uint, action string) error
	SweepExpiredFunc          func(ctx context.Context, now time.Time) (int64, error)
	SweepCalls                int
}

func (m *mockRepository) GetLocker(ctx context.Context, id uint) (*entity.Locker, error) {
	if m.GetLockerFunc != nil {
		return m.GetLockerFunc(ctx, id)
	}
	return nil, errors.New("GetLockerFunc is not implemented")
}

func (m *mockRepository) ListLockers(ctx context.Context) ([]entity.Locker, error) {
	if m.ListLockersFunc != nil {
		return m.ListLockersFunc(ctx)
	}
	return nil, errors.New("ListLockersFunc is not implemented")
}

func (m *mockRepository) FirstFreeID(ctx context.Context, groupID uint) (uint, error) {
	if m.FirstFreeIDFunc != nil {
		return m.FirstFreeIDFunc(ctx, groupID)
	}
	return 0, errors.New("FirstFreeIDFunc is not implemented")
}

func (m *mockRepository) ReserveFirstFree(ctx context.Context, groupID, userID uint, expiresAt time.Time) (*entity.Locker, error) {
	if m.ReserveFirstFreeFunc != nil {
		return m.ReserveFirstFreeFunc(ctx, groupID, userID, expiresAt)
	}
	return nil, errors.New("ReserveFirstFreeFunc is not implemented")
}

func (m *mockRepository) CancelReservation(ctx context.Context, lockerID, userID uint) (bool, error) {
	if m.CancelReservationFunc != nil {
		return m.CancelReservationFunc(ctx, lockerID, userID)
	}
	return false, errors.New("CancelReservationFunc is not implemented")
}

func (m *mockRepository) OccupyWithPackage(ctx context.Context, lockerID, userID uint, notExpiredAt time.Time, pkg *pkgentity.Package) error {
	if m.OccupyWithPackageFunc != nil {
		return m.OccupyWithPackageFunc(ctx, lockerID, userID, notExpiredAt, pkg)
	}
	return errors.New("OccupyWithPackageFunc is not implemented")
}

func (m *mockRepository) MarkCourierOpen(ctx context.Context, groupID, courierID uint) (int, error) {
	if m.MarkCourierOpenFunc != nil {
		return m.MarkCourierOpenFunc(ctx, groupID, courierID)
	}
	return 0, errors.New("MarkCourierOpenFunc is not implemented")
}

func (m *mockRepository) PickupCreated(ctx context.Context, groupID, courierID uint) (int, error) {
	if m.PickupCreatedFunc != nil {
		return m.PickupCreatedFunc(ctx, groupID, courierID)
	}
	return 0, errors.New("PickupCreatedFunc is not implemented")
}

func (m *mockRepository) CountAssignedInTransit(ctx context.Context, groupID, courierID uint) (int, error) {
	if m.CountAssignedFunc != nil {
		return m.CountAssignedFunc(ctx, groupID, courierID)
	}
	return 0, errors.New("CountAssignedFunc is not implemented")
}

func (m *mockRepository) ReserveForDelivery(ctx context.Context, groupID, courierID uint, need int, expiresAt time.Time) ([]uint, error) {
	if m.ReserveForDeliveryFunc != nil {
		return m.ReserveForDeliveryFunc(ctx, groupID, courierID, need, expiresAt)
	}
	return nil, errors.New("ReserveForDeliveryFunc is not implemented")
}

func (m *mockRepository) DeliverAssigned(ctx context.Context, groupID, courierID uint) (int, error) {
	if m.DeliverAssignedFunc != nil {
		return m.DeliverAssignedFunc(ctx, groupID, courierID)
	}
	return 0, errors.New("DeliverAssignedFunc is not implemented")
}

func (m *mockRepository) ReceiveOldest(ctx context.Context, userID uint) (*pkgentity.Package, error) {
	if m.ReceiveOldestFunc != nil {
		return m.ReceiveOldestFunc(ctx, userID)
	}
	return nil, errors.New("ReceiveOldestFunc is not implemented")
}

func (m *mockRepository) Transition(ctx context.Context, lockerID uint, from []entity.Status, to entity.Status, actorID uint, action string) error {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, lockerID, from, to, actorID, action)
	}
	return errors.New("TransitionFunc is not implemented")
}

func (m *mockRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	m.SweepCalls++
	if m.SweepExpiredFunc != nil {
		return m.SweepExpiredFunc(ctx, now)
	}
	return 0, nil
}

// mockRecipients はRecipientDirectoryのモック実装です。
type mockRecipients struct {
	FindIDByEmailFunc func(ctx context.Context, email string) (uint, error)
}

func (m *mockRecipients) FindIDByEmail(ctx context.Context, email string) (uint, error) {
	if m.FindIDByEmailFunc != nil {
		return m.FindIDByEmailFunc(ctx, email)
	}
	return 0, errors.New("FindIDByEmailFunc is not implemented")
}

// mockCodes はCodeGeneratorのモック実装です。
type mockCodes struct {
	code string
	err  error
}

func (m *mockCodes) NewCode(ctx context.Context) (string, error) {
	return m.code, m.err
}

// mockGroups はGroupCheckerのモック実装です。
type mockGroups struct {
	exists bool
	err    error
}

func (m *mockGroups) Exists(ctx context.Context, groupID uint) (bool, error) {
	return m.exists, m.err
}

func newEngine(repo *mockRepository, recipients *mockRecipients, codes *mockCodes, groups *mockGroups, clk clock.Clock) *usecase.EngineUsecase {
	if recipients == nil {
		recipients = &mockRecipients{}
	}
	if codes == nil {
		codes = &mockCodes{code: "PKG-TESTCODE"}
	}
	if groups == nil {
		groups = &mockGroups{exists: true}
	}
	if clk == nil {
		clk = clock.NewFake(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	}
	return usecase.NewEngineUsecase(repo, recipients, codes, groups, clk, usecase.Config{})
}

// TestEngineUsecase_ReserveLocker は予約が期限付きで確保され、事前スイープが走ることをテストします。
func TestEngineUsecase_ReserveLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success: expiry is now plus the reservation window", func(t *testing.T) {
		var gotExpiry time.Time
		repo := &mockRepository{
			ReserveFirstFreeFunc: func(ctx context.Context, groupID, userID uint, expiresAt time.Time) (*entity.Locker, error) {
				gotExpiry = expiresAt
				return &entity.Locker{ID: 7, GroupID: groupID, Status: entity.StatusReserved}, nil
			},
		}
		u := newEngine(repo, nil, nil, nil, clock.NewFake(now))

		res, err := u.ReserveLocker(ctx, 1, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.LockerID != 7 {
			t.Errorf("expected locker 7, got %d", res.LockerID)
		}
		wantExpiry := now.Add(usecase.DefaultReservationWindow)
		if !gotExpiry.Equal(wantExpiry) || !res.ExpiresAt.Equal(wantExpiry) {
			t.Errorf("expected expiry %v, got repo=%v result=%v", wantExpiry, gotExpiry, res.ExpiresAt)
		}
		if repo.SweepCalls != 1 {
			t.Errorf("expected one opportunistic sweep, got %d", repo.SweepCalls)
		}
	})

	t.Run("unknown group: ErrGroupNotFound without touching allocation", func(t *testing.T) {
		repo := &mockRepository{}
		u := newEngine(repo, nil, nil, &mockGroups{exists: false}, clock.NewFake(now))

		_, err := u.ReserveLocker(ctx, 404, 10)
		if !errors.Is(err, usecase.ErrGroupNotFound) {
			t.Errorf("expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("no capacity: ErrNoFreeLockers passes through", func(t *testing.T) {
		repo := &mockRepository{
			ReserveFirstFreeFunc: func(ctx context.Context, groupID, userID uint, expiresAt time.Time) (*entity.Locker, error) {
				return nil, usecase.ErrNoFreeLockers
			},
		}
		u := newEngine(repo, nil, nil, nil, clock.NewFake(now))

		_, err := u.ReserveLocker(ctx, 1, 10)
		if !errors.Is(err, usecase.ErrNoFreeLockers) {
			t.Errorf("expected ErrNoFreeLockers, got %v", err)
		}
	})
}

// TestEngineUsecase_SendPackage は荷物投函のオーケストレーションをテストします。
func TestEngineUsecase_SendPackage(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success: package carries code, parties and groups", func(t *testing.T) {
		var created *pkgentity.Package
		repo := &mockRepository{
			GetLockerFunc: func(ctx context.Context, id uint) (*entity.Locker, error) {
				return &entity.Locker{ID: id, GroupID: 3, Status: entity.StatusReserved}, nil
			},
			OccupyWithPackageFunc: func(ctx context.Context, lockerID, userID uint, notExpiredAt time.Time, pkg *pkgentity.Package) error {
				created = pkg
				return nil
			},
		}
		recipients := &mockRecipients{
			FindIDByEmailFunc: func(ctx context.Context, email string) (uint, error) {
				if email != "odbiorca@example.com" {
					t.Errorf("unexpected recipient email %q", email)
				}
				return 20, nil
			},
		}
		u := newEngine(repo, recipients, &mockCodes{code: "PKG-ABCD1234"}, nil, clock.NewFake(now))

		code, err := u.SendPackage(ctx, 5, 10, 2, "odbiorca@example.com", "prezent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if code != "PKG-ABCD1234" {
			t.Errorf("expected generated code, got %q", code)
		}
		if created == nil {
			t.Fatal("expected a package to be handed to the repository")
		}
		if created.SenderID != 10 || created.RecipientID != 20 {
			t.Errorf("wrong parties: %+v", created)
		}
		if created.OriginGroupID != 3 || created.DestinationGroupID != 2 {
			t.Errorf("wrong groups: %+v", created)
		}
		if created.Status != pkgentity.StatusCreated {
			t.Errorf("expected created status, got %q", created.Status)
		}
		if created.CurrentLockerID == nil || *created.CurrentLockerID != 5 {
			t.Errorf("package must sit in locker 5: %+v", created)
		}
	})

	t.Run("lost reservation: error passes through, no code returned", func(t *testing.T) {
		repo := &mockRepository{
			GetLockerFunc: func(ctx context.Context, id uint) (*entity.Locker, error) {
				return &entity.Locker{ID: id, GroupID: 3}, nil
			},
			OccupyWithPackageFunc: func(ctx context.Context, lockerID, userID uint, notExpiredAt time.Time, pkg *pkgentity.Package) error {
				return usecase.ErrNotReservedOrExpired
			},
		}
		recipients := &mockRecipients{
			FindIDByEmailFunc: func(ctx context.Context, email string) (uint, error) { return 20, nil },
		}
		u := newEngine(repo, recipients, nil, nil, clock.NewFake(now))

		code, err := u.SendPackage(ctx, 5, 10, 2, "odbiorca@example.com", "")
		if !errors.Is(err, usecase.ErrNotReservedOrExpired) {
			t.Errorf("expected ErrNotReservedOrExpired, got %v", err)
		}
		if code != "" {
			t.Errorf("expected empty code on failure, got %q", code)
		}
	})

	t.Run("unknown recipient: lookup error passes through", func(t *testing.T) {
		repo := &mockRepository{}
		recipients := &mockRecipients{
			FindIDByEmailFunc: func(ctx context.Context, email string) (uint, error) {
				return 0, usecase.ErrRecipientNotFound
			},
		}
		u := newEngine(repo, recipients, nil, nil, clock.NewFake(now))

		_, err := u.SendPackage(ctx, 5, 10, 2, "nieznany@example.com", "")
		if !errors.Is(err, usecase.ErrRecipientNotFound) {
			t.Errorf("expected ErrRecipientNotFound, got %v", err)
		}
	})
}

// TestEngineUsecase_CourierOpenForDelivery は配達予約がall-or-nothingで行われることをテストします。
func TestEngineUsecase_CourierOpenForDelivery(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success: reserves one locker per assigned package", func(t *testing.T) {
		repo := &mockRepository{
			CountAssignedFunc: func(ctx context.Context, groupID, courierID uint) (int, error) {
				return 3, nil
			},
			ReserveForDeliveryFunc: func(ctx context.Context, groupID, courierID uint, need int, expiresAt time.Time) ([]uint, error) {
				if need != 3 {
					t.Errorf("expected need 3, got %d", need)
				}
				return []uint{1, 2, 3}, nil
			},
		}
		u := newEngine(repo, nil, nil, nil, clock.NewFake(now))

		ids, err := u.CourierOpenForDelivery(ctx, 1, 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ids) != 3 {
			t.Errorf("expected 3 reserved lockers, got %v", ids)
		}
	})

	t.Run("no assigned packages: ErrNoAssignedPackages", func(t *testing.T) {
		repo := &mockRepository{
			CountAssignedFunc: func(ctx context.Context, groupID, courierID uint) (int, error) {
				return 0, nil
			},
		}
		u := newEngine(repo, nil, nil, nil, clock.NewFake(now))

		_, err := u.CourierOpenForDelivery(ctx, 1, 30)
		if !errors.Is(err, usecase.ErrNoAssignedPackages) {
			t.Errorf("expected ErrNoAssignedPackages, got %v", err)
		}
	})

	t.Run("insufficient capacity: ErrNotEnoughFreeLockers passes through", func(t *testing.T) {
		repo := &mockRepository{
			CountAssignedFunc: func(ctx context.Context, groupID, courierID uint) (int, error) {
				return 5, nil
			},
			ReserveForDeliveryFunc: func(ctx context.Context, groupID, courierID uint, need int, expiresAt time.Time) ([]uint, error) {
				return nil, usecase.ErrNotEnoughFreeLockers
			},
		}
		u := newEngine(repo, nil, nil, nil, clock.NewFake(now))

		_, err := u.CourierOpenForDelivery(ctx, 1, 30)
		if !errors.Is(err, usecase.ErrNotEnoughFreeLockers) {
			t.Errorf("expected ErrNotEnoughFreeLockers, got %v", err)
		}
	})
}

// TestEngineUsecase_CourierOpenLockers は開錠対象ゼロ件がエラーになることをテストします。
func TestEngineUsecase_CourierOpenLockers(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		MarkCourierOpenFunc: func(ctx context.Context, groupID, courierID uint) (int, error) {
			return 0, nil
		},
	}
	u := newEngine(repo, nil, nil, nil, nil)

	_, err := u.CourierOpenLockers(ctx, 1, 30)
	if !errors.Is(err, usecase.ErrNothingReady) {
		t.Errorf("expected ErrNothingReady, got %v", err)
	}
}

// TestEngineUsecase_ReceivePackage は受領時に荷物コードが返ることをテストします。
func TestEngineUsecase_ReceivePackage(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		ReceiveOldestFunc: func(ctx context.Context, userID uint) (*pkgentity.Package, error) {
			return &pkgentity.Package{PublicCode: "PKG-RCVD0001", Status: pkgentity.StatusReceived}, nil
		},
	}
	u := newEngine(repo, nil, nil, nil, nil)

	code, err := u.ReceivePackage(ctx, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "PKG-RCVD0001" {
		t.Errorf("expected package code, got %q", code)
	}
}

// TestEngineUsecase_MaintenanceTransitions は保守系遷移の前提状態をテストします。
func TestEngineUsecase_MaintenanceTransitions(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name       string
		call       func(u *usecase.EngineUsecase) error
		wantFrom   []entity.Status
		wantTo     entity.Status
		wantAction string
	}{
		{
			name:       "MarkBroken only from free",
			call:       func(u *usecase.EngineUsecase) error { return u.MarkBroken(ctx, 1, 50) },
			wantFrom:   []entity.Status{entity.StatusFree},
			wantTo:     entity.StatusBroken,
			wantAction: entity.ActionBroken,
		},
		{
			name:       "MarkRepaired only from broken",
			call:       func(u *usecase.EngineUsecase) error { return u.MarkRepaired(ctx, 1, 50) },
			wantFrom:   []entity.Status{entity.StatusBroken},
			wantTo:     entity.StatusFree,
			wantAction: entity.ActionRepaired,
		},
		{
			name:       "ForceOpen from occupied or reserved",
			call:       func(u *usecase.EngineUsecase) error { return u.ForceOpen(ctx, 1, 50) },
			wantFrom:   []entity.Status{entity.StatusOccupied, entity.StatusReserved},
			wantTo:     entity.StatusOpen,
			wantAction: entity.ActionForceOpen,
		},
		{
			name:       "CloseLocker from open",
			call:       func(u *usecase.EngineUsecase) error { return u.CloseLocker(ctx, 1, 50) },
			wantFrom:   []entity.Status{entity.StatusOpen},
			wantTo:     entity.StatusFree,
			wantAction: entity.ActionClose,
		},
		{
			name:       "BlockLocker from free",
			call:       func(u *usecase.EngineUsecase) error { return u.BlockLocker(ctx, 1, 50) },
			wantFrom:   []entity.Status{entity.StatusFree},
			wantTo:     entity.StatusBlocked,
			wantAction: entity.ActionBlock,
		},
		{
			name:       "UnblockLocker from blocked",
			call:       func(u *usecase.EngineUsecase) error { return u.UnblockLocker(ctx, 1, 50) },
			wantFrom:   []entity.Status{entity.StatusBlocked},
			wantTo:     entity.StatusFree,
			wantAction: entity.ActionUnblock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotFrom []entity.Status
			var gotTo entity.Status
			var gotAction string
			repo := &mockRepository{
				TransitionFunc: func(ctx context.Context, lockerID uint, from []entity.Status, to entity.Status, actorID uint, action string) error {
					gotFrom, gotTo, gotAction = from, to, action
					return nil
				},
			}
			u := newEngine(repo, nil, nil, nil, nil)

			if err := tc.call(u); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(gotFrom) != len(tc.wantFrom) {
				t.Fatalf("expected from %v, got %v", tc.wantFrom, gotFrom)
			}
			for i := range gotFrom {
				if gotFrom[i] != tc.wantFrom[i] {
					t.Errorf("expected from %v, got %v", tc.wantFrom, gotFrom)
				}
			}
			if gotTo != tc.wantTo {
				t.Errorf("expected to %q, got %q", tc.wantTo, gotTo)
			}
			if gotAction != tc.wantAction {
				t.Errorf("expected action %q, got %q", tc.wantAction, gotAction)
			}
		})
	}
}

// TestEngineUsecase_ListLockers は一覧取得前にスイープが走ることをテストします。
func TestEngineUsecase_ListLockers(t *testing.T) {
	ctx := context.Background()

	repo := &mockRepository{
		ListLockersFunc: func(ctx context.Context) ([]entity.Locker, error) {
			return []entity.Locker{{ID: 1}, {ID: 2}}, nil
		},
	}
	u := newEngine(repo, nil, nil, nil, nil)

	lockers, err := u.ListLockers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lockers) != 2 {
		t.Errorf("expected 2 lockers, got %d", len(lockers))
	}
	if repo.SweepCalls != 1 {
		t.Errorf("expected one opportunistic sweep, got %d", repo.SweepCalls)
	}
}
