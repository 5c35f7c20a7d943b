package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	itemRequestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/user"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config carries everything the router needs to wire the modules.
type Config struct {
	IsProduction    bool
	ProdOrigins     []string
	TrustUserHeader bool
	RequestTimeout  time.Duration
	Logger          *zap.Logger
	DB              Pinger

	UserService        user.Service
	ItemService        item.Service
	BookingService     booking.Service
	CommentService     comment.Service
	ItemRequestService itemrequest.Service
	JWTManager         *auth.JWTManager
}

// NewRouter assembles middleware (CORS, logging, metrics, identity) and
// registers the routes of every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery(), RequestID(), RequestLogger(cfg.Logger), metrics.GinMiddleware())

	corsConfig := cors.DefaultConfig()
	switch {
	case cfg.IsProduction && len(cfg.ProdOrigins) > 0:
		corsConfig.AllowOrigins = cfg.ProdOrigins
	case cfg.IsProduction:
		// No origins configured: refuse cross-origin requests.
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	default:
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", auth.UserHeader, RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", healthz(cfg.DB))

	identityMiddleware := auth.Identity(cfg.JWTManager, cfg.TrustUserHeader)

	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService, cfg.BookingService, cfg.CommentService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	commentHandler := commentHttp.NewHandler(cfg.CommentService)
	itemRequestHandler := itemRequestHttp.NewHandler(cfg.ItemRequestService)

	v1 := r.Group("/v1")
	v1.Use(Timeout(cfg.RequestTimeout))
	{
		userHttp.RegisterRoutes(v1, userHandler, identityMiddleware)
		itemHttp.RegisterRoutes(v1, itemHandler, identityMiddleware)
		commentHttp.RegisterRoutes(v1, commentHandler, identityMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, identityMiddleware)
		itemRequestHttp.RegisterRoutes(v1, itemRequestHandler, identityMiddleware)
	}

	return r
}

func healthz(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
