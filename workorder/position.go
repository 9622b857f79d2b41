package workorder

import (
	"context"
	"database/sql"
	"slices"

	"github.com/autoerp/server/apperr"
	"github.com/autoerp/server/model"
	"gorm.io/gorm"
)

// nextPosition returns MAX(position)+1 over q, or 0 when q matches no rows.
func nextPosition(q *gorm.DB) (int, error) {
	var maxPos sql.NullInt64
	if err := q.Select("MAX(position)").Row().Scan(&maxPos); err != nil {
		return 0, err
	}
	if !maxPos.Valid {
		return 0, nil
	}
	return int(maxPos.Int64) + 1, nil
}

// CreateInventoryType appends a type after every existing type.
func (s *Service) CreateInventoryType(ctx context.Context, name string) (*model.InventoryType, error) {
	row := &model.InventoryType{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx.Model(&model.InventoryType{}))
		if err != nil {
			return err
		}
		row.Position = pos
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// CreateInventoryItem appends an item after the existing items of its type.
func (s *Service) CreateInventoryItem(ctx context.Context, typeID int64, name string) (*model.InventoryItem, error) {
	row := &model.InventoryItem{TypeID: typeID, Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.InventoryType{}).Where("id = ?", typeID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("inventory type %d not found", typeID)
		}
		pos, err := nextPosition(tx.Model(&model.InventoryItem{}).Where("type_id = ?", typeID))
		if err != nil {
			return err
		}
		row.Position = pos
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// CreateBodyworkItem appends a panel after every existing panel.
func (s *Service) CreateBodyworkItem(ctx context.Context, title string) (*model.BodyworkItem, error) {
	row := &model.BodyworkItem{Title: title}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx.Model(&model.BodyworkItem{}))
		if err != nil {
			return err
		}
		row.Position = pos
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// reorder loads the rows named by placements in one query and writes each
// row's new position in a single transaction. Ids that match no row are
// ignored; when an id repeats, its last placement wins.
func reorder[T any](ctx context.Context, db *gorm.DB, placements []Placement, id func(*T) int64, setPos func(*T, int), pos func(*T) int) ([]T, error) {
	rows := []T{}
	if len(placements) == 0 {
		return rows, nil
	}
	want := make(map[int64]int, len(placements))
	ids := make([]int64, 0, len(placements))
	for _, p := range placements {
		if _, seen := want[p.ID]; !seen {
			ids = append(ids, p.ID)
		}
		want[p.ID] = p.Position
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			p := want[id(&rows[i])]
			setPos(&rows[i], p)
			if err := tx.Model(&rows[i]).Update("position", p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rows, func(a, b T) int { return pos(&a) - pos(&b) })
	return rows, nil
}

// ReorderInventoryTypes applies a caller-supplied position map to types.
func (s *Service) ReorderInventoryTypes(ctx context.Context, placements []Placement) ([]model.InventoryType, error) {
	return reorder(ctx, s.db, placements,
		func(t *model.InventoryType) int64 { return t.ID },
		func(t *model.InventoryType, p int) { t.Position = p },
		func(t *model.InventoryType) int { return t.Position },
	)
}

// ReorderInventoryItems applies a caller-supplied position map to items.
// Positions are not checked against the items' types.
func (s *Service) ReorderInventoryItems(ctx context.Context, placements []Placement) ([]model.InventoryItem, error) {
	return reorder(ctx, s.db, placements,
		func(t *model.InventoryItem) int64 { return t.ID },
		func(t *model.InventoryItem, p int) { t.Position = p },
		func(t *model.InventoryItem) int { return t.Position },
	)
}

// ReorderBodyworkItems applies a caller-supplied position map to panels.
func (s *Service) ReorderBodyworkItems(ctx context.Context, placements []Placement) ([]model.BodyworkItem, error) {
	return reorder(ctx, s.db, placements,
		func(t *model.BodyworkItem) int64 { return t.ID },
		func(t *model.BodyworkItem, p int) { t.Position = p },
		func(t *model.BodyworkItem) int { return t.Position },
	)
}
