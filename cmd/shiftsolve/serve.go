package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/shiftsolve/shiftsolve/internal/logging"
	"github.com/shiftsolve/shiftsolve/pkg/api"
	"github.com/shiftsolve/shiftsolve/pkg/auth"
	"github.com/shiftsolve/shiftsolve/pkg/database"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and admin interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("GIN_MODE") == "" {
				gin.SetMode(gin.ReleaseMode)
			}

			db := database.InitDB()
			_ = auth.EnsureAdminExists(db)
			h := api.NewHandler(db)
			if logger, err := logging.New("serve"); err == nil {
				h.Logger = logger
				defer logger.Sync()
			}

			r := gin.Default()
			r.StaticFS("/static", h.GetStaticFS())

			r.GET("/", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "shiftsolve API", "version": "1.0.0"})
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

			if p := os.Getenv("PORT"); p != "" {
				port = p
			}
			log.Printf("shiftsolve listening on :%s", port)
			return r.Run(":" + port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "8000", "HTTP listen port")
	return cmd
}
