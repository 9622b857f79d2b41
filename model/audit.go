package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one state-changing API request.
type AuditLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"audit_id"`
	TraceID    string         `gorm:"size:64;index" json:"trace_id"`
	Method     string         `gorm:"size:8;not null" json:"method"`
	Route      string         `gorm:"size:128;index;not null" json:"route"`
	Path       string         `gorm:"size:255;not null" json:"path"`
	Params     datatypes.JSON `json:"params"`
	Status     int            `gorm:"not null" json:"status"`
	IP         string         `gorm:"size:64" json:"ip"`
	DurationMs int            `json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
