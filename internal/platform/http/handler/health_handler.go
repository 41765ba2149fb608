// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health は /healthz 用のハンドラーを返します。
// ping が非nilの場合、GETはデータベース導通まで確認します。
// HEAD/OPTIONS は監視系の軽量プローブ用にDBへ触れず即応答します。
func Health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			if ping != nil {
				if err := ping(c.Request.Context()); err != nil {
					c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
					return
				}
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		}
	}
}
