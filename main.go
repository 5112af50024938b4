package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	uuid "github.com/twinj/uuid"

	"fusiondb/controllers"
	"fusiondb/middlewares"
	"fusiondb/models"
	"fusiondb/sessions"
	"fusiondb/store"
	"fusiondb/utils"
)

// corsMiddleware Use middleware for CORS (Cross-Origin Resource Sharing)
// TODO: This is too broad, cannot expose to the internet!
func corsMiddleware() gin.HandlerFunc {
	_corsMiddleware := cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Requested-With, Content-Type, Origin, Authorization, Accept, Client-Security-Token, Accept-Encoding, x-access-token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	return _corsMiddleware
}

// requestIDMiddleware Generate a UUID and attach it to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		_uuid := uuid.NewV4()
		c.Writer.Header().Set("X-Request-Id", _uuid.String())
		c.Next()
	}
}

func main() {
	log.Info("Starting fusionDB...")

	// Generate our config based on the config supplied
	// by the user in the flags
	configPath, debugMode, err := utils.ParseFlags()
	if err != nil {
		log.Fatal(err)
	}
	config, err := utils.NewConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Debug mode enables gin-gonic debug mode
	if debugMode == false {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database and build the store around the handle
	db, err := models.ConnectDataBase(config.Sqlite.Filename)
	if err != nil {
		log.Fatal(err)
	}
	entityStore := store.New(db)

	// Cache of active visualization sessions
	sessionTTL := time.Duration(config.Sessions.TTLMinutes) * time.Minute
	cache := sessions.NewLocalCache(sessionTTL, time.Duration(config.Sessions.CleanupSeconds)*time.Second)

	r := gin.Default()

	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Version tag to test against
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "v0.0.1",
		})
	})

	api := r.Group("/api")
	v1 := api.Group("/v1")
	{
		// Generic entity access by kind name; unknown kinds degrade to
		// empty results instead of failing
		v1.GET("/db/:kind", controllers.FindEntities(entityStore))
		v1.GET("/db/:kind/:id", controllers.FindEntity(entityStore))
		v1.DELETE("/db/:kind/:id", controllers.DeleteEntity(entityStore))
		v1.GET("/count/:kind", controllers.CountEntities(entityStore))
		v1.GET("/names/:kind", controllers.EntityNames(entityStore))
		v1.POST("/search", controllers.SearchEntities(entityStore))

		// Slide ingestion and annotation readback
		v1.POST("/slides", controllers.CreateSlide(entityStore))
		v1.GET("/slides/:id/annotations", controllers.GetSlideAnnotations(entityStore))

		// Visualization sessions
		v1.POST("/sessions", controllers.CreateSession(entityStore, cache, config.Auth.Secret, sessionTTL))

		protected := v1.Group("/user")
		protected.Use(middlewares.JwtAuthMiddleware(config.Auth.Secret))
		protected.GET("/me", controllers.CurrentUser(entityStore, cache))
	}

	addr := fmt.Sprintf(":%s", config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscanll.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall. SIGKILL but can"t be catch, so don't need add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	// catching ctx.Done(). timeout of 1 seconds.
	select {
	case <-ctx.Done():
		log.Info("Timeout of 1 seconds.")
	}

	log.Info("Emptying session cache...")
	cache.EmptyCache()

	log.Info("Server exiting")
}
