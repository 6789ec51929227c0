package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	if err := ctx.Err(); err != nil {
		status.Status = "degraded"
		status.Components["context"] = err.Error()
		return status
	}

	if s.app == nil {
		status.Status = "degraded"
		status.Components["detector"] = "missing"
		return status
	}
	cfg, detector := s.app.snapshot()
	if detector == nil {
		status.Status = "degraded"
		status.Components["detector"] = "missing"
		return status
	}
	status.Components["detector"] = "ok"
	status.Components["results"] = fmt.Sprintf("ok (%d files)", s.app.FileCount())

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if cfg != nil && cfg.DB.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	s.app.watchMu.Lock()
	watching := s.app.activeWatcher != nil
	s.app.watchMu.Unlock()
	if watching {
		status.Components["watcher"] = "running"
	}

	return status
}
