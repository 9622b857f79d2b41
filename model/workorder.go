package model

import "gorm.io/datatypes"

// ExtraItem is a catalog question asked on every order, independent of any order.
type ExtraItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"item_id"`
	Title       string  `gorm:"size:128;not null" json:"title"`
	Description *string `gorm:"size:255" json:"description"`
}

func (ExtraItem) TableName() string { return "extra_items" }

// ExtraInfo is the answer to one ExtraItem on one order, keyed by (order, item).
type ExtraInfo struct {
	OrderID int64      `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ItemID  int64      `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	Info    *string    `gorm:"type:text" json:"info"`
	Order   *Order     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Item    *ExtraItem `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
}

func (ExtraInfo) TableName() string { return "extra_info" }

// InventoryType is a checklist category. Position orders types globally.
type InventoryType struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"inv_type_id"`
	Name     string `gorm:"size:64;not null" json:"name"`
	Position int    `gorm:"not null" json:"position"`
}

func (InventoryType) TableName() string { return "inventory_types" }

// InventoryItem is a checklist entry. Position orders items within their type.
type InventoryItem struct {
	ID       int64          `gorm:"primaryKey;autoIncrement" json:"inv_item_id"`
	TypeID   int64          `gorm:"index;not null" json:"type_id"`
	Name     string         `gorm:"size:64;not null" json:"name"`
	Position int            `gorm:"not null" json:"position"`
	Type     *InventoryType `gorm:"foreignKey:TypeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

// InventoryData records the checklist value of one item on one order.
type InventoryData struct {
	OrderID int64          `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ItemID  int64          `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	Data    *string        `gorm:"type:text" json:"data"`
	Order   *Order         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Item    *InventoryItem `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
}

func (InventoryData) TableName() string { return "inventory_data" }

// BodyworkItem is a panel of the car shown on the inspection sheet.
type BodyworkItem struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"item_id"`
	Title    string `gorm:"size:64;not null" json:"title"`
	Position int    `gorm:"not null" json:"position"`
}

func (BodyworkItem) TableName() string { return "bodywork_items" }

// BodyworkData holds damage marks for one panel on one order. Marks is a JSON
// array of points drawn by the front end.
type BodyworkData struct {
	OrderID int64          `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ItemID  int64          `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	Marks   datatypes.JSON `json:"marks"`
	Notes   *string        `gorm:"type:text" json:"notes"`
	Order   *Order         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Item    *BodyworkItem  `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
}

func (BodyworkData) TableName() string { return "bodywork_data" }
