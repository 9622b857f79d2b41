package model

import "time"

type AdmStatus struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"adm_status_id"`
	Status string `gorm:"size:32;uniqueIndex;not null" json:"status"`
}

func (AdmStatus) TableName() string { return "adm_statuses" }

type OpStatus struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"op_status_id"`
	Status string `gorm:"size:32;uniqueIndex;not null" json:"status"`
}

func (OpStatus) TableName() string { return "op_statuses" }

type Priority struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"priority_id"`
	Priority string `gorm:"size:32;uniqueIndex;not null" json:"priority"`
}

func (Priority) TableName() string { return "priorities" }

// Order is a work order. COrderID is the customer-facing code printed on the
// ticket; ID is the surrogate key used by every child table.
type Order struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"order_id"`
	COrderID     string    `gorm:"column:c_order_id;size:64;uniqueIndex;not null" json:"c_order_id"`
	OrderDate    time.Time `gorm:"not null" json:"order_date"`
	AdvisorID    *int64    `gorm:"index" json:"advisor_id"`
	MechanicID   *int64    `gorm:"index" json:"mechanic_id"`
	CustomerID   *int64    `gorm:"index" json:"customer_id"`
	ContactID    *int64    `json:"contact_id"`
	VehicleID    *int64    `gorm:"index" json:"vehicle_id"`
	PMileage     *int      `gorm:"column:p_mileage" json:"p_mileage"`
	CMileage     *int      `gorm:"column:c_mileage" json:"c_mileage"`
	AdmStatusID  int64     `gorm:"not null" json:"adm_status_id"`
	OpStatusID   int64     `gorm:"not null;index" json:"op_status_id"`
	PriorityID   int64     `gorm:"not null" json:"priority_id"`
	HasExtraInfo bool      `gorm:"not null" json:"has_extra_info"`
	FuelLevel    *int      `json:"fuel_level"`
	ServiceBay   *string   `gorm:"size:32" json:"service_bay"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Advisor   *Employee  `gorm:"foreignKey:AdvisorID;constraint:OnDelete:SET NULL" json:"-"`
	Mechanic  *Employee  `gorm:"foreignKey:MechanicID;constraint:OnDelete:SET NULL" json:"-"`
	Customer  *Customer  `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Contact   *Contact   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Vehicle   *Vehicle   `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	AdmStatus *AdmStatus `json:"-"`
	OpStatus  *OpStatus  `json:"-"`
	Priority  *Priority  `json:"-"`
}

func (Order) TableName() string { return "orders" }

// Defaults applied when an order is created without status or priority.
const (
	DefaultAdmStatusID int64 = 1
	DefaultOpStatusID  int64 = 1
	DefaultPriorityID  int64 = 1
)
