package routes

import (
	"net/http"
	"time"

	"scan2know/controllers"
	"scan2know/middlewares"

	"github.com/apex/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router hands requests to.
type Deps struct {
	JWTSecret      string
	ScanRateLimit  float64
	ScanRateBurst  int
	UploadMaxBytes int64

	Auth          *controllers.AuthController
	Scan          *controllers.ScanController
	Products      *controllers.ProductController
	Ingredients   *controllers.IngredientController
	Users         *controllers.UserController
	Devices       *controllers.DeviceController
	Notifications *controllers.NotificationController
	Realtime      *controllers.RealtimeController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/users/ws"})))
	r.Use(cors())
	if d.UploadMaxBytes > 0 {
		// multipart overhead on top of the image itself
		r.MaxMultipartMemory = d.UploadMaxBytes + 1<<20
	}

	requireAuth := middlewares.AuthMiddleware(d.JWTSecret)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", d.Auth.Signup)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/me", requireAuth, d.Auth.Me)
	}

	scan := api.Group("/scan")
	scan.Use(requireAuth, middlewares.RateLimitMiddleware(d.ScanRateLimit, d.ScanRateBurst))
	{
		scan.POST("/upload", d.Scan.Upload)
	}

	products := api.Group("/products")
	{
		products.POST("/search", d.Products.Search)
		products.GET("/demo", d.Products.Demo)
		products.POST("/compare", d.Products.Compare)
	}

	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("", d.Ingredients.List)
		ingredients.GET("/:id", d.Ingredients.Get)
	}

	users := api.Group("/users")
	users.Use(requireAuth)
	{
		users.GET("/recent-searches", d.Users.RecentSearches)
		users.GET("/recommendations", d.Users.Recommendations)
		users.GET("/scans/:id", d.Users.ScanDetail)
		users.GET("/alerts", d.Notifications.Alerts)
		users.POST("/notifications/toggle", d.Notifications.Toggle)
		users.GET("/devices", d.Devices.List)
		users.POST("/devices", d.Devices.Register)
		users.GET("/ws", d.Realtime.AlertsWS)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "scan2know",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request")
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
