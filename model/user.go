package model

import "time"

// User is a login account. Password holds the bcrypt hash.
type User struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username    string       `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password    string       `gorm:"size:128;not null" json:"-"`
	IsAdmin     bool         `gorm:"not null" json:"is_admin"`
	IsEmployee  bool         `gorm:"not null" json:"is_employee"`
	IsActive    bool         `gorm:"not null" json:"is_active"`
	Permissions []Permission `gorm:"many2many:user_permissions;constraint:OnDelete:CASCADE" json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Permission is a named capability granted to users.
type Permission struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"permission_id"`
	Name        string  `gorm:"size:80;uniqueIndex;not null" json:"name"`
	Description *string `gorm:"size:255" json:"description"`
}

func (Permission) TableName() string { return "permissions" }

// PermissionNames flattens the user's permissions to their names.
func (u *User) PermissionNames() []string {
	names := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		names = append(names, p.Name)
	}
	return names
}
