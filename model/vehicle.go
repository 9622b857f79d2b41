package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Color struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"color_id"`
	Color string `gorm:"size:32;uniqueIndex;not null" json:"color"`
}

func (Color) TableName() string { return "colors" }

type Motor struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"motor_id"`
	Type string `gorm:"size:32;uniqueIndex;not null" json:"type"`
}

func (Motor) TableName() string { return "motors" }

type VehicleType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"v_type_id"`
	Type string `gorm:"size:32;uniqueIndex;not null" json:"type"`
}

func (VehicleType) TableName() string { return "vehicle_types" }

type Make struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"make_id"`
	Make string `gorm:"size:64;uniqueIndex;not null" json:"make"`
}

func (Make) TableName() string { return "makes" }

// VehicleModel is a model line of a make, e.g. Corolla under Toyota.
type VehicleModel struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"model_id"`
	Model  string `gorm:"size:64;not null" json:"model"`
	MakeID int64  `gorm:"index;not null" json:"make_id"`
	Make   *Make  `gorm:"constraint:OnDelete:CASCADE" json:"make,omitempty"`
}

func (VehicleModel) TableName() string { return "vehicle_models" }

type Transmission struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"transmission_id"`
	Type string `gorm:"size:32;uniqueIndex;not null" json:"type"`
}

func (Transmission) TableName() string { return "transmissions" }

type Vehicle struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"vehicle_id"`
	CustomerID     *int64           `gorm:"index" json:"customer_id"`
	VIN            string           `gorm:"column:vin;size:17;uniqueIndex;not null" json:"vin"`
	Plate          *string          `gorm:"size:16" json:"plate"`
	Year           *int             `json:"year"`
	ModelID        *int64           `json:"model_id"`
	Mileage        *int             `json:"mileage"`
	ColorID        *int64           `json:"color_id"`
	MotorID        *int64           `json:"motor_id"`
	TransmissionID *int64           `json:"transmission_id"`
	Cylinders      *int             `json:"cylinders"`
	Liters         *decimal.Decimal `gorm:"type:decimal(4,1)" json:"liters"`
	VTypeID        *int64           `gorm:"column:v_type_id" json:"v_type_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Customer     *Customer     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Model        *VehicleModel `gorm:"foreignKey:ModelID;constraint:OnDelete:SET NULL" json:"model,omitempty"`
	Color        *Color        `gorm:"constraint:OnDelete:SET NULL" json:"color,omitempty"`
	Motor        *Motor        `gorm:"constraint:OnDelete:SET NULL" json:"motor,omitempty"`
	Transmission *Transmission `gorm:"constraint:OnDelete:SET NULL" json:"transmission,omitempty"`
	VehicleType  *VehicleType  `gorm:"foreignKey:VTypeID;constraint:OnDelete:SET NULL" json:"vehicle_type,omitempty"`
}

func (Vehicle) TableName() string { return "vehicles" }
