package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Registrar は /api 配下にルートを登録します。
type Registrar interface {
	Register(r gin.IRouter)
}

// RouterConfig はルータの設定です。
type RouterConfig struct {
	Logger      *zap.Logger
	CORSOrigins []string
}

// NewRouter はミドルウェアと各ハンドラを組み込んだ gin エンジンを生成します。
func NewRouter(cfg RouterConfig, registrars ...Registrar) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(RequestID(), AccessLog(logger), Recovery(logger))
	// X-Forwarded-For を信用せず接続元アドレスを client_ip とする。
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Warn("failed to disable trusted proxies", zap.Error(err))
	}

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition", RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	for _, reg := range registrars {
		reg.Register(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Success: false, Message: "not found"})
	})

	return r
}
