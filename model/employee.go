package model

import "time"

type Position struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"position_id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
}

func (Position) TableName() string { return "positions" }

// Employee is a shop worker; orders reference employees as advisor or mechanic.
type Employee struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"employee_id"`
	FName      string    `gorm:"column:fname;size:64;not null" json:"fname"`
	LName1     string    `gorm:"column:lname1;size:64;not null" json:"lname1"`
	LName2     *string   `gorm:"column:lname2;size:64" json:"lname2"`
	Email      *string   `gorm:"size:128;uniqueIndex" json:"email"`
	Phone      *string   `gorm:"size:32" json:"phone"`
	PositionID *int64    `gorm:"index" json:"position_id"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	Position   *Position `gorm:"constraint:OnDelete:SET NULL" json:"position,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }
