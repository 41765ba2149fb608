package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"locker_backend/internal/feature/lockers/domain/entity"
)

// mockGroupRepository はテスト用のGroupRepositoryモック実装です。
type mockGroupRepository struct {
	listFn       func(ctx context.Context) ([]entity.LockerGroup, error)
	getFn        func(ctx context.Context, id uint) (*entity.LockerGroup, error)
	existsFn     func(ctx context.Context, id uint) (bool, error)
	createFn     func(ctx context.Context, group *entity.LockerGroup) error
	addLockersFn func(ctx context.Context, groupID uint, count int) error
}

func (m *mockGroupRepository) List(ctx context.Context) ([]entity.LockerGroup, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockGroupRepository) Get(ctx context.Context, id uint) (*entity.LockerGroup, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockGroupRepository) Exists(ctx context.Context, id uint) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return false, nil
}

func (m *mockGroupRepository) Create(ctx context.Context, group *entity.LockerGroup) error {
	if m.createFn != nil {
		return m.createFn(ctx, group)
	}
	return nil
}

func (m *mockGroupRepository) AddLockers(ctx context.Context, groupID uint, count int) error {
	if m.addLockersFn != nil {
		return m.addLockersFn(ctx, groupID, count)
	}
	return nil
}

// TestNewCachingGroupRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingGroupRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "groups",
		},
		{
			name:              "custom values preserved",
			ttl:               10 * time.Minute,
			namespace:         "custom",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingGroupRepository(nil, tt.ttl, &mockGroupRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingGroupRepository_List_CacheHit はキャッシュヒット時にDBへアクセスしないことを検証します。
func TestCachingGroupRepository_List_CacheHit(t *testing.T) {
	t.Parallel()

	groups := []entity.LockerGroup{
		{ID: 1, Name: "Kraków", Location: "50.06,19.94"},
		{ID: 2, Name: "Warszawa", Location: "52.23,21.01"},
	}
	cached, _ := json.Marshal(groups)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("groups:all").SetVal(string(cached))

	dbCalled := false
	inner := &mockGroupRepository{
		listFn: func(ctx context.Context) ([]entity.LockerGroup, error) {
			dbCalled = true
			return nil, nil
		},
	}

	repo := NewCachingGroupRepository(rdb, time.Minute, inner, "")
	out, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dbCalled {
		t.Error("cache hit must not reach the database")
	}
	if len(out) != 2 || out[0].Name != "Kraków" {
		t.Errorf("unexpected result: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}

// TestCachingGroupRepository_List_CacheMiss はキャッシュミス時にDBから取得してキャッシュへ保存することを検証します。
func TestCachingGroupRepository_List_CacheMiss(t *testing.T) {
	t.Parallel()

	groups := []entity.LockerGroup{{ID: 1, Name: "Tarnów", Location: "50.01,20.99"}}
	serialized, _ := json.Marshal(groups)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("groups:all").RedisNil()
	mock.ExpectSet("groups:all", serialized, time.Minute).SetVal("OK")

	inner := &mockGroupRepository{
		listFn: func(ctx context.Context) ([]entity.LockerGroup, error) {
			return groups, nil
		},
	}

	repo := NewCachingGroupRepository(rdb, time.Minute, inner, "")
	out, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Tarnów" {
		t.Errorf("unexpected result: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}

// TestCachingGroupRepository_List_DBError はDBエラーがそのまま返されることを検証します。
func TestCachingGroupRepository_List_DBError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("groups:all").RedisNil()

	wantErr := errors.New("db down")
	inner := &mockGroupRepository{
		listFn: func(ctx context.Context) ([]entity.LockerGroup, error) {
			return nil, wantErr
		},
	}

	repo := NewCachingGroupRepository(rdb, time.Minute, inner, "")
	_, err := repo.List(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}

// TestCachingGroupRepository_Create_Invalidates は作成後にキャッシュが無効化されることを検証します。
func TestCachingGroupRepository_Create_Invalidates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel("groups:all", "groups:3").SetVal(2)

	inner := &mockGroupRepository{
		createFn: func(ctx context.Context, group *entity.LockerGroup) error {
			group.ID = 3
			return nil
		},
	}

	repo := NewCachingGroupRepository(rdb, time.Minute, inner, "")
	if err := repo.Create(context.Background(), &entity.LockerGroup{Name: "Gdańsk"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}

// TestCachingGroupRepository_AddLockers_Invalidates はロッカー追加後にキャッシュが無効化されることを検証します。
func TestCachingGroupRepository_AddLockers_Invalidates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel("groups:all", "groups:2").SetVal(2)

	inner := &mockGroupRepository{}
	repo := NewCachingGroupRepository(rdb, time.Minute, inner, "")
	if err := repo.AddLockers(context.Background(), 2, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("redis expectations not met: %v", err)
	}
}

// TestCachingGroupRepository_NilRedis はRedis未設定時にキャッシュを完全にバイパスすることを検証します。
func TestCachingGroupRepository_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockGroupRepository{
		listFn: func(ctx context.Context) ([]entity.LockerGroup, error) {
			return []entity.LockerGroup{{ID: 1, Name: "Kraków"}}, nil
		},
	}

	repo := NewCachingGroupRepository(nil, 0, inner, "")
	out, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("unexpected result: %+v", out)
	}
}
