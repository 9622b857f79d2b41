package model

import "time"

// Customer is either a person (fname/lname) or a company (cname).
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"customer_id"`
	IsCompany bool      `gorm:"not null" json:"is_company"`
	CName     *string   `gorm:"column:cname;size:64" json:"cname"`
	FName     *string   `gorm:"column:fname;size:64" json:"fname"`
	LName     *string   `gorm:"column:lname;size:64" json:"lname"`
	Address1  *string   `gorm:"size:128" json:"address1"`
	Address2  *string   `gorm:"size:128" json:"address2"`
	Email     string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Phone     *string   `gorm:"size:32" json:"phone"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// Contact is a person reachable on behalf of a customer.
type Contact struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"contact_id"`
	CustomerID int64     `gorm:"index;not null" json:"customer_id"`
	FName      string    `gorm:"column:fname;size:64;not null" json:"fname"`
	LName      *string   `gorm:"column:lname;size:64" json:"lname"`
	Email      *string   `gorm:"size:128" json:"email"`
	Phone      *string   `gorm:"size:32" json:"phone"`
	Customer   *Customer `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Contact) TableName() string { return "contacts" }
