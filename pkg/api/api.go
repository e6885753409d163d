// Package api is the teacher's pkg/handlers adapted to spec.md §6's
// scheduling endpoint: ScheduleJSON and ScheduleCSV now ingest the
// domain-model wire records (internal/ingest), run the real solver
// (internal/engine) instead of the teacher's toy greedy scheduler, and
// persist a feasible result when a JSON request sets "persist" and a
// writer is configured (internal/persist). The admin/API-key surface — JWT login, HMAC key
// issuance, usage accounting — is carried over unchanged from the
// teacher, since spec.md never touches authentication.
package api

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shiftsolve/shiftsolve/internal/config"
	"github.com/shiftsolve/shiftsolve/internal/domain"
	"github.com/shiftsolve/shiftsolve/internal/engine"
	"github.com/shiftsolve/shiftsolve/internal/ingest"
	"github.com/shiftsolve/shiftsolve/internal/persist"
	"github.com/shiftsolve/shiftsolve/internal/solverr"
	"github.com/shiftsolve/shiftsolve/pkg/auth"
	"github.com/shiftsolve/shiftsolve/pkg/database"
)

//go:embed static/*
var staticEmbed embed.FS

// Handler holds the dependencies every route needs: the admin/API-key
// database, and an optional persistence writer for solved schedules
// (nil disables the idempotent write-back, used by tests and by
// callers that only want the JSON result).
type Handler struct {
	DB     *gorm.DB
	Writer persist.Writer

	// Logger, when set, is passed through to every solve so its
	// annealing progress is recorded the same way the CLI's does.
	Logger *zap.Logger
}

// NewHandler wires a Handler against db, using a GormWriter over the
// same connection for solve persistence.
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Writer: persist.NewGormWriter(db)}
}

// AuthMiddleware verifies the JWT token for admin routes.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for solver routes using HMAC.
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}
		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		userID, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      userID,
			RateLimit: 10000,
		})

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// scheduleRequest is the JSON request body for /schedule: the ingest
// input plus the handful of solver tunables a caller may want to
// override (see internal/config.Default for the rest).
type scheduleRequest struct {
	ingest.Input
	Workers   int      `json:"workers"`
	Temp      float64  `json:"initial_temperature"`
	Cooling   float64  `json:"cooling_rate"`
	NoImprove int      `json:"max_no_improvement"`
	Seed      *int64   `json:"seed"`
	Persist   bool     `json:"persist"`
}

// ScheduleJSON handles the JSON-based scheduling request: ingest,
// solve, optionally persist, respond with the assignment and its cost
// breakdown.
func (h *Handler) ScheduleJSON(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, ids, err := ingest.ModelFromRecords(req.Input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.solveAndRespond(c, model, ids, req)
}

// ScheduleCSV handles CSV file uploads for scheduling, mirroring the
// teacher's multipart-form handling.
func (h *Handler) ScheduleCSV(c *gin.Context) {
	peopleFile, err := c.FormFile("people_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "people_file is required"})
		return
	}
	shiftsFile, err := c.FormFile("shifts_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shifts_file is required"})
		return
	}

	people, err := peopleFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open people_file"})
		return
	}
	defer people.Close()
	shifts, err := shiftsFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open shifts_file"})
		return
	}
	defer shifts.Close()

	model, ids, err := ingest.FromCSV(people, shifts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.solveAndRespond(c, model, ids, scheduleRequest{})
}

func (h *Handler) solveAndRespond(c *gin.Context, model *domain.Model, ids ingest.IDMap, req scheduleRequest) {
	cfg := config.Default()
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	if req.Temp > 0 {
		cfg.InitialTemperature = req.Temp
	}
	if req.Cooling > 0 {
		cfg.CoolingRate = req.Cooling
	}
	if req.NoImprove > 0 {
		cfg.MaxIterationsWithoutImprovement = req.NoImprove
	}
	cfg.Seed = req.Seed

	result, err := engine.Solve(context.Background(), model, cfg, h.Logger)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if solverr.IsKind(err, solverr.KindNotFound) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if req.Persist && h.Writer != nil {
		if err := h.Writer.Write(result.Assignment, model, result.Breakdown, ids); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist schedule: " + err.Error()})
			return
		}
	}

	h.RecordUsage(c, len(model.Shifts), len(model.People))

	assignedShifts := make(map[string][]string, len(model.ShiftOrder))
	for _, sid := range model.ShiftOrder {
		members := result.Assignment.Shift(sid)
		names := make([]string, 0, len(members))
		for pid := range members {
			names = append(names, ids.Person[pid])
		}
		assignedShifts[ids.Shift[sid]] = names
	}

	personCost := make(map[string]float64, len(result.Breakdown.PerPerson))
	for pid, pb := range result.Breakdown.PerPerson {
		personCost[ids.Person[pid]] = pb.Total()
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":          result.RunID,
		"assigned_shifts": assignedShifts,
		"per_person_cost": personCost,
		"total_cost":      result.Breakdown.Total,
		"initial_cost":    result.InitialCost,
	})
}

// RecordUsage records API usage in the database using an upsert,
// unchanged from the teacher's accounting scheme.
func (h *Handler) RecordUsage(c *gin.Context, shiftCount, personCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":    gorm.Expr("request_count + ?", 1),
			"total_shifts":     gorm.Expr("total_shifts + ?", shiftCount),
			"total_volunteers": gorm.Expr("total_volunteers + ?", personCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:           apiKey.ID,
		Date:            today,
		RequestCount:    1,
		TotalShifts:     shiftCount,
		TotalVolunteers: personCount,
	})
}

// AdminInterface serves the admin web interface from embedded files.
func (h *Handler) AdminInterface(c *gin.Context) {
	_ = auth.EnsureAdminExists(h.DB)

	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "static/index.html not found in embedded FS"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets.
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
