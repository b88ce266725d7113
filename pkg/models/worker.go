package models

import (
	"time"
)

// Worker is one workflow worker process reported by the engine.
type Worker struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	ActiveJobs    int       `json:"active_jobs"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
}

// WorkersStatus is the engine-wide worker fleet report.
type WorkersStatus struct {
	Healthy bool     `json:"healthy"`
	Workers []Worker `json:"workers"`
}
