package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/yieldwise/internal/database"
	"github.com/aristath/yieldwise/internal/domain"
	"github.com/aristath/yieldwise/internal/modules/comparables"
	"github.com/aristath/yieldwise/internal/scheduler"
)

// DatasetStore is the part of the comparables repository the system
// endpoints report on
type DatasetStore interface {
	Count(ctx context.Context) (int, error)
	LastImport(ctx context.Context) (*comparables.ImportRecord, error)
}

// SystemHandlers handles monitoring and maintenance endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	db          *database.DB
	dataset     DatasetStore
	reloadJob   scheduler.Job // nil without a configured comparables source
	features    Features
	// systemStats returns CPU and RAM usage percentages
	systemStats func() (float64, float64)
}

// Features reports which optional collaborators are configured
type Features struct {
	RentModel    bool `json:"rent_model"`
	RentCache    bool `json:"rent_cache"`
	ObjectStore  bool `json:"object_store"`
	ScheduledJob bool `json:"scheduled_reload"`
}

// SystemStatusResponse represents the service status
type SystemStatusResponse struct {
	Status        string      `json:"status"`
	UptimeSeconds float64     `json:"uptime_seconds"`
	CPUPercent    float64     `json:"cpu_percent"`
	RAMPercent    float64     `json:"ram_percent"`
	Goroutines    int         `json:"goroutines"`
	Database      DBInfo      `json:"database"`
	Dataset       DatasetInfo `json:"dataset"`
	Features      Features    `json:"features"`
	CheckedAt     string      `json:"checked_at"`
}

// DBInfo represents information about the database
type DBInfo struct {
	Name    string  `json:"name"`
	Path    string  `json:"path"`
	SizeMB  float64 `json:"size_mb"`
	Healthy bool    `json:"healthy"`
	Error   string  `json:"error,omitempty"`
}

// DatasetInfo describes the loaded comparables dataset
type DatasetInfo struct {
	Rows       int                       `json:"rows"`
	LastImport *comparables.ImportRecord `json:"last_import,omitempty"`
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	db *database.DB,
	dataset DatasetStore,
	reloadJob scheduler.Job,
	features Features,
) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		db:          db,
		dataset:     dataset,
		reloadJob:   reloadJob,
		features:    features,
	}
	h.systemStats = h.getSystemStats
	return h
}

// GetSystemStatusSnapshot collects the current status. Failures degrade
// the status instead of failing the call; the first one is returned.
func (h *SystemHandlers) GetSystemStatusSnapshot(ctx context.Context) (SystemStatusResponse, error) {
	var firstErr error
	recordErr := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	cpuPercent, ramPercent := h.systemStats()
	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		Features:      h.features,
		CheckedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if h.db != nil {
		response.Database = DBInfo{Name: h.db.Name(), Path: h.db.Path(), Healthy: true}
		if info, err := os.Stat(h.db.Path()); err == nil {
			response.Database.SizeMB = float64(info.Size()) / 1024 / 1024
		}
		if err := h.db.HealthCheck(ctx); err != nil {
			h.log.Error().Err(err).Msg("Database health check failed")
			response.Database.Healthy = false
			response.Database.Error = err.Error()
			response.Status = "degraded"
			recordErr(err)
		}
	}

	if h.dataset != nil {
		rows, err := h.dataset.Count(ctx)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to count comparables")
			recordErr(err)
		}
		response.Dataset.Rows = rows

		last, err := h.dataset.LastImport(ctx)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to read last import")
			recordErr(err)
		}
		response.Dataset.LastImport = last
	}

	return response, firstErr
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response, err := h.GetSystemStatusSnapshot(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("System status collected with warnings")
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleTriggerReload handles POST /api/system/jobs/reload-comparables
// Runs the comparables reload immediately and reports its outcome
func (h *SystemHandlers) HandleTriggerReload(w http.ResponseWriter, r *http.Request) {
	if h.reloadJob == nil {
		h.writeJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"error":   domain.ValidationError{Code: domain.ErrCodeUnavailable, Message: "No comparables source configured"},
		})
		return
	}

	h.log.Info().Msg("Manual comparables reload triggered")

	if err := h.reloadJob.Run(); err != nil {
		h.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false,
			"error":   domain.ValidationError{Code: domain.ErrCodeUnavailable, Message: err.Error()},
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comparables reloaded",
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
