// Package router assembles the gin route table and its middleware.
package router

import (
	"time"

	"github.com/gin-gonic/gin"

	adminhandler "locker_backend/internal/feature/admin/transport/handler"
	"locker_backend/internal/feature/auth/domain/entity"
	authhandler "locker_backend/internal/feature/auth/transport/handler"
	lockerhandler "locker_backend/internal/feature/lockers/transport/handler"
	pkghandler "locker_backend/internal/feature/packages/transport/handler"
	jwtmw "locker_backend/internal/platform/jwt"
	"locker_backend/internal/shared/ratelimiter"
)

// Handlers bundles every transport handler the router mounts.
type Handlers struct {
	Auth     *authhandler.AuthHandler
	Locker   *lockerhandler.LockerHandler
	Courier  *lockerhandler.CourierHandler
	Service  *lockerhandler.ServiceHandler
	Group    *lockerhandler.GroupHandler
	Packages *pkghandler.PackageHandler
	Admin    *adminhandler.AdminHandler
	Health   gin.HandlerFunc
}

// NewRouter builds the full route table.
//
// Roles gate whole route groups: a courier token cannot call user endpoints
// and vice versa. Service endpoints accept admin tokens too.
func NewRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)

	// register/login は認証前の入口なのでレートリミットを適用
	authLimiter := ratelimiter.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")
	{
		// 新規ユーザー登録
		api.POST("/register", ratelimiter.Middleware(authLimiter), h.Auth.Register)
		// ログイン（JWT 発行）
		api.POST("/login", ratelimiter.Middleware(authLimiter), h.Auth.Login)
		// 荷物コードによる追跡
		api.GET("/packages/:code", h.Packages.Track)
	}

	// 認証必須のルート
	auth := api.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		// キオスク一覧（地図表示用、全ロール共通）
		auth.GET("/groups", h.Group.List)
		// 予約が割り当てるロッカーの事前確認
		auth.GET("/lockers/preview/:groupId", h.Locker.Preview)
	}

	user := auth.Group("/")
	user.Use(jwtmw.RequireRole(entity.RoleUser))
	{
		user.POST("/locker/open", h.Locker.Reserve)
		user.POST("/locker/cancel", h.Locker.Cancel)
		user.POST("/locker/send", h.Locker.Send)

		user.POST("/user/receive", h.Locker.Receive)
		user.GET("/user/pending", h.Packages.Pending)
		user.GET("/user/packages", h.Packages.Active)
		user.GET("/user/history", h.Packages.History)
		user.GET("/user/profile", h.Auth.Profile)
		user.PUT("/user/profile", h.Auth.UpdateProfile)
	}

	courier := auth.Group("/courier")
	courier.Use(jwtmw.RequireRole(entity.RoleCourier))
	{
		courier.POST("/open", h.Courier.Open)
		courier.POST("/pickup", h.Courier.Pickup)
		courier.POST("/statusByGroup", h.Packages.StatusByGroup)
		courier.POST("/delivery/open", h.Courier.DeliveryOpen)
		courier.POST("/delivery/deliver", h.Courier.Deliver)
	}

	service := auth.Group("/")
	service.Use(jwtmw.RequireAnyRole(entity.RoleService, entity.RoleAdmin))
	{
		service.GET("/lockers", h.Locker.List)
		service.POST("/service/broken", h.Service.MarkBroken)
		service.POST("/service/repaired", h.Service.MarkRepaired)
		service.POST("/service/forceOpen", h.Service.ForceOpen)
		service.POST("/service/close", h.Service.Close)
	}

	admin := auth.Group("/")
	admin.Use(jwtmw.RequireRole(entity.RoleAdmin))
	{
		// 管理上の保留（block/unblock）は admin のみ
		admin.POST("/service/block", h.Service.Block)
		admin.POST("/service/unblock", h.Service.Unblock)
		admin.POST("/setRole", h.Admin.SetRole)
		admin.GET("/admin/users", h.Admin.ListUsers)
		admin.POST("/admin/staff", h.Admin.CreateStaff)
		admin.DELETE("/admin/users/:id", h.Admin.DeleteUser)
		admin.POST("/admin/groups", h.Group.Create)
		admin.POST("/admin/groups/:id/lockers", h.Group.AddLockers)
		admin.GET("/admin/reports/lockers", h.Admin.LockersReport)
		admin.GET("/admin/reports/packages", h.Admin.PackagesReport)
	}

	return r
}
