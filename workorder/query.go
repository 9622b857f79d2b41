package workorder

import (
	"context"
	"slices"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"gorm.io/gorm"
)

func requireOrder(db *gorm.DB, orderID int64) error {
	var n int64
	if err := db.Model(&model.Order{}).Where("id = ?", orderID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("order %d not found", orderID)
	}
	return nil
}

// ListExtraInfo returns the extra info of an order with catalog items attached.
func (s *Service) ListExtraInfo(ctx context.Context, orderID int64) ([]model.ExtraInfo, error) {
	db := s.db.WithContext(ctx)
	if err := requireOrder(db, orderID); err != nil {
		return nil, err
	}
	rows := []model.ExtraInfo{}
	err := db.Preload("Item").Where("order_id = ?", orderID).Order("item_id").Find(&rows).Error
	return rows, err
}

// ListInventoryData returns the order's checklist values for the items of one
// type, in item position order.
func (s *Service) ListInventoryData(ctx context.Context, orderID, typeID int64) ([]model.InventoryData, error) {
	db := s.db.WithContext(ctx)
	if err := requireOrder(db, orderID); err != nil {
		return nil, err
	}
	rows := []model.InventoryData{}
	items := db.Model(&model.InventoryItem{}).Select("id").Where("type_id = ?", typeID)
	err := db.Preload("Item").
		Where("order_id = ? AND item_id IN (?)", orderID, items).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rows, func(a, b model.InventoryData) int {
		return itemPosition(a) - itemPosition(b)
	})
	return rows, nil
}

func itemPosition(d model.InventoryData) int {
	if d.Item == nil {
		return 0
	}
	return d.Item.Position
}

// ListBodyworkData returns the bodywork marks recorded on an order.
func (s *Service) ListBodyworkData(ctx context.Context, orderID int64) ([]model.BodyworkData, error) {
	db := s.db.WithContext(ctx)
	if err := requireOrder(db, orderID); err != nil {
		return nil, err
	}
	rows := []model.BodyworkData{}
	err := db.Preload("Item").Where("order_id = ?", orderID).Order("item_id").Find(&rows).Error
	return rows, err
}

// ListInventoryTypes returns all types by position.
func (s *Service) ListInventoryTypes(ctx context.Context) ([]model.InventoryType, error) {
	rows := []model.InventoryType{}
	err := s.db.WithContext(ctx).Order("position, id").Find(&rows).Error
	return rows, err
}

// ListInventoryItems returns items by position, limited to one type when
// typeID is non-zero.
func (s *Service) ListInventoryItems(ctx context.Context, typeID int64) ([]model.InventoryItem, error) {
	rows := []model.InventoryItem{}
	q := s.db.WithContext(ctx).Order("type_id, position, id")
	if typeID != 0 {
		q = q.Where("type_id = ?", typeID)
	}
	err := q.Find(&rows).Error
	return rows, err
}

// ListBodyworkItems returns all panels by position.
func (s *Service) ListBodyworkItems(ctx context.Context) ([]model.BodyworkItem, error) {
	rows := []model.BodyworkItem{}
	err := s.db.WithContext(ctx).Order("position, id").Find(&rows).Error
	return rows, err
}
