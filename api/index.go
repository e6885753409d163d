// Package handler is the Vercel Go Runtime entry point, unchanged in
// shape from the teacher's: build the same Gin engine serve.go builds
// for a long-running process, but hand ServeHTTP to the runtime
// instead of calling r.Run.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/shiftsolve/shiftsolve/pkg/api"
	"github.com/shiftsolve/shiftsolve/pkg/auth"
	"github.com/shiftsolve/shiftsolve/pkg/database"
)

var r *gin.Engine

func init() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := api.NewHandler(db)

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "shiftsolve API (Vercel)",
			"version": "1.0.0",
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	sched := r.Group("/api")
	sched.Use(h.APIKeyMiddleware())
	{
		sched.POST("/schedule", h.ScheduleJSON)
		sched.POST("/schedule/csv", h.ScheduleCSV)
		sched.POST("/validate", h.ValidateInput)
		sched.GET("/usage", h.GetMyUsage)
	}
}

// Handler is the entry point for the Vercel Go Runtime.
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
