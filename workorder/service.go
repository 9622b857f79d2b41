// Package workorder holds the order checklist operations: batch upserts keyed
// by (order, item), manual position reordering, and position assignment for
// new checklist entries.
package workorder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExtraInfoInput struct {
	OrderID int64   `json:"order_id" binding:"required"`
	ItemID  int64   `json:"item_id" binding:"required"`
	Info    *string `json:"info"`
}

type InventoryDataInput struct {
	OrderID int64   `json:"order_id" binding:"required"`
	ItemID  int64   `json:"item_id" binding:"required"`
	Data    *string `json:"data"`
}

type BodyworkDataInput struct {
	OrderID int64           `json:"order_id" binding:"required"`
	ItemID  int64           `json:"item_id" binding:"required"`
	Marks   json.RawMessage `json:"marks"`
	Notes   *string         `json:"notes"`
}

// Placement assigns a new position to the entity with the given id.
type Placement struct {
	ID       int64 `json:"id" binding:"required"`
	Position int   `json:"position"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type pairKey struct{ order, item int64 }

// collector keeps one result per (order, item) pair, the last write winning.
type collector[T any] struct {
	index map[pairKey]int
	rows  []T
}

func newCollector[T any](n int) *collector[T] {
	return &collector[T]{index: make(map[pairKey]int, n), rows: make([]T, 0, n)}
}

func (c *collector[T]) put(orderID, itemID int64, row T) {
	k := pairKey{orderID, itemID}
	if i, ok := c.index[k]; ok {
		c.rows[i] = row
		return
	}
	c.index[k] = len(c.rows)
	c.rows = append(c.rows, row)
}

// findPair loads the row keyed by (orderID, itemID) into dst.
func findPair(tx *gorm.DB, dst interface{}, orderID, itemID int64) (bool, error) {
	err := tx.Where("order_id = ? AND item_id = ?", orderID, itemID).Take(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// requireRefs checks that the order and the catalog item a new row points at exist.
func requireRefs(tx *gorm.DB, orderID, itemID int64, item interface{}, itemName string) error {
	var n int64
	if err := tx.Model(&model.Order{}).Where("id = ?", orderID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("order %d not found", orderID)
	}
	if err := tx.Model(item).Where("id = ?", itemID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("%s %d not found", itemName, itemID)
	}
	return nil
}

// UpsertExtraInfo writes every record of the batch in one transaction. A
// missing order or item on a record that has to be created fails the whole
// batch, including updates made earlier in it.
func (s *Service) UpsertExtraInfo(ctx context.Context, in []ExtraInfoInput) ([]model.ExtraInfo, error) {
	out := newCollector[model.ExtraInfo](len(in))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range in {
			var row model.ExtraInfo
			found, err := findPair(tx, &row, rec.OrderID, rec.ItemID)
			if err != nil {
				return err
			}
			if found {
				if err := tx.Model(&row).Update("info", rec.Info).Error; err != nil {
					return err
				}
				row.Info = rec.Info
			} else {
				if err := requireRefs(tx, rec.OrderID, rec.ItemID, &model.ExtraItem{}, "extra item"); err != nil {
					return err
				}
				row = model.ExtraInfo{OrderID: rec.OrderID, ItemID: rec.ItemID, Info: rec.Info}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			out.put(rec.OrderID, rec.ItemID, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.rows, nil
}

// UpsertInventoryData has the same contract as UpsertExtraInfo.
func (s *Service) UpsertInventoryData(ctx context.Context, in []InventoryDataInput) ([]model.InventoryData, error) {
	out := newCollector[model.InventoryData](len(in))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range in {
			var row model.InventoryData
			found, err := findPair(tx, &row, rec.OrderID, rec.ItemID)
			if err != nil {
				return err
			}
			if found {
				if err := tx.Model(&row).Update("data", rec.Data).Error; err != nil {
					return err
				}
				row.Data = rec.Data
			} else {
				if err := requireRefs(tx, rec.OrderID, rec.ItemID, &model.InventoryItem{}, "inventory item"); err != nil {
					return err
				}
				row = model.InventoryData{OrderID: rec.OrderID, ItemID: rec.ItemID, Data: rec.Data}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			out.put(rec.OrderID, rec.ItemID, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.rows, nil
}

// marksJSON accepts a JSON array or an absent/null value.
func marksJSON(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' || !json.Valid(trimmed) {
		return nil, apperr.Invalid("marks must be a JSON array")
	}
	return datatypes.JSON(trimmed), nil
}

// UpsertBodyworkData has the same contract as UpsertExtraInfo; both marks and
// notes are overwritten on an existing row.
func (s *Service) UpsertBodyworkData(ctx context.Context, in []BodyworkDataInput) ([]model.BodyworkData, error) {
	out := newCollector[model.BodyworkData](len(in))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range in {
			marks, err := marksJSON(rec.Marks)
			if err != nil {
				return err
			}
			var row model.BodyworkData
			found, err := findPair(tx, &row, rec.OrderID, rec.ItemID)
			if err != nil {
				return err
			}
			if found {
				err := tx.Model(&row).Updates(map[string]interface{}{
					"marks": marks,
					"notes": rec.Notes,
				}).Error
				if err != nil {
					return err
				}
				row.Marks, row.Notes = marks, rec.Notes
			} else {
				if err := requireRefs(tx, rec.OrderID, rec.ItemID, &model.BodyworkItem{}, "bodywork item"); err != nil {
					return err
				}
				row = model.BodyworkData{OrderID: rec.OrderID, ItemID: rec.ItemID, Marks: marks, Notes: rec.Notes}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			out.put(rec.OrderID, rec.ItemID, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.rows, nil
}
