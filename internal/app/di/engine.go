// Package di provides dependency injection factories for creating application
// components.
package di

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"locker_backend/internal/app/router"
	adminadapters "locker_backend/internal/feature/admin/adapters"
	adminhandler "locker_backend/internal/feature/admin/transport/handler"
	adminusecase "locker_backend/internal/feature/admin/usecase"
	authadapters "locker_backend/internal/feature/auth/adapters"
	authhandler "locker_backend/internal/feature/auth/transport/handler"
	authusecase "locker_backend/internal/feature/auth/usecase"
	lockeradapters "locker_backend/internal/feature/lockers/adapters"
	"locker_backend/internal/feature/lockers/sweeper"
	lockerhandler "locker_backend/internal/feature/lockers/transport/handler"
	lockerusecase "locker_backend/internal/feature/lockers/usecase"
	pkgadapters "locker_backend/internal/feature/packages/adapters"
	pkghandler "locker_backend/internal/feature/packages/transport/handler"
	pkgusecase "locker_backend/internal/feature/packages/usecase"
	"locker_backend/internal/platform/cache"
	platformhandler "locker_backend/internal/platform/http/handler"
	jwtmw "locker_backend/internal/platform/jwt"
	"locker_backend/internal/shared/clock"
)

// emailDirectory is the slice of the auth user repository the locker engine
// needs to resolve recipients.
type emailDirectory interface {
	FindIDByEmail(ctx context.Context, email string) (uint, error)
}

// recipientDirectory adapts the auth user repository to the locker engine's
// recipient lookup, translating auth's not-found into the engine's taxonomy.
type recipientDirectory struct {
	users emailDirectory
}

func (d recipientDirectory) FindIDByEmail(ctx context.Context, email string) (uint, error) {
	id, err := d.users.FindIDByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			return 0, lockerusecase.ErrRecipientNotFound
		}
		return 0, err
	}
	return id, nil
}

// NewGroupRepository creates the kiosk site repository.
// If Redis is available the read path is cached; otherwise it falls back to
// hitting the database directly.
func NewGroupRepository(rdb *redis.Client, db *gorm.DB) lockerusecase.GroupRepository {
	inner := lockeradapters.NewGroupRepository(db)
	if rdb != nil {
		return cache.NewCachingGroupRepository(rdb, 5*time.Minute, inner, "groups")
	}
	return inner
}

// dbPing returns the readiness probe the health endpoint runs on GET.
func dbPing(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// App bundles the wired components main needs to run the service.
type App struct {
	Handlers router.Handlers
	Sweeper  *sweeper.Sweeper
}

// NewApp wires every repository, usecase and handler. rdb may be nil; the
// service then runs without the cache layer.
func NewApp(db *gorm.DB, rdb *redis.Client) *App {
	users := authadapters.NewUserRepository(db)
	lockers := lockeradapters.NewLockerRepository(db)
	groups := NewGroupRepository(rdb, db)
	packages := pkgadapters.NewPackageRepository(db)
	admin := adminadapters.NewAdminRepository(db)

	jwtGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 2*time.Hour)
	codes := pkgusecase.NewCodeGenerator(packages)

	engine := lockerusecase.NewEngineUsecase(
		lockers,
		recipientDirectory{users: users},
		codes,
		groups,
		clock.System{},
		lockerusecase.Config{},
	)
	tracker := pkgusecase.NewTrackerUsecase(packages)
	auth := authusecase.NewAuthUsecase(users, jwtGen)
	groupUC := lockerusecase.NewGroupUsecase(groups)
	adminUC := adminusecase.NewAdminUsecase(admin, adminusecase.Config{
		AllowAdminEscalation: os.Getenv("ALLOW_ADMIN_ESCALATION") == "true",
	})
	reports := adminusecase.NewReportsUsecase(admin)

	return &App{
		Handlers: router.Handlers{
			Auth:     authhandler.NewAuthHandler(auth),
			Locker:   lockerhandler.NewLockerHandler(engine),
			Courier:  lockerhandler.NewCourierHandler(engine),
			Service:  lockerhandler.NewServiceHandler(engine),
			Group:    lockerhandler.NewGroupHandler(groupUC),
			Packages: pkghandler.NewPackageHandler(tracker),
			Admin:    adminhandler.NewAdminHandler(adminUC, reports),
			Health:   platformhandler.Health(dbPing(db)),
		},
		Sweeper: sweeper.New(engine, sweeper.DefaultInterval, nil),
	}
}
