package model

import "time"

type AppointmentReason struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"reason_id"`
	Reason string `gorm:"size:128;uniqueIndex;not null" json:"reason"`
}

func (AppointmentReason) TableName() string { return "appointment_reasons" }

type AppointmentStatus struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"status_id"`
	Status string `gorm:"size:32;uniqueIndex;not null" json:"status"`
}

func (AppointmentStatus) TableName() string { return "appointment_statuses" }

type Appointment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"appointment_id"`
	CustomerID *int64    `gorm:"index" json:"customer_id"`
	VehicleID  *int64    `json:"vehicle_id"`
	Date       time.Time `gorm:"not null;index" json:"date"`
	ReasonID   *int64    `json:"reason_id"`
	StatusID   int64     `gorm:"not null" json:"status_id"`
	Notes      *string   `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Customer *Customer          `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Vehicle  *Vehicle           `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Reason   *AppointmentReason `gorm:"constraint:OnDelete:SET NULL" json:"reason,omitempty"`
	Status   *AppointmentStatus `json:"status,omitempty"`
}

func (Appointment) TableName() string { return "appointments" }

const DefaultAppointmentStatusID int64 = 1
