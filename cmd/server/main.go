package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	redisv9 "github.com/redis/go-redis/v9"

	"locker_backend/internal/app/di"
	"locker_backend/internal/app/router"
	"locker_backend/internal/platform/db"
	platformredis "locker_backend/internal/platform/redis"
)

func main() {
	// db
	gormDB := db.OpenDB()

	// Redis（落ちていてもキャッシュなしで起動する）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	app := di.NewApp(gormDB, rdb)

	// 期限切れ予約の回収は別ゴルーチンで回す
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go app.Sweeper.Run(ctx)

	r := router.NewRouter(app.Handlers)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	slog.Info("starting server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
