package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStagingCartRepository implements StagingCartRepository using GORM
type GormStagingCartRepository struct {
	db *gorm.DB
}

// NewGormStagingCartRepository creates a new GormStagingCartRepository
func NewGormStagingCartRepository(db *gorm.DB) *GormStagingCartRepository {
	return &GormStagingCartRepository{db: db}
}

// FindByID finds a staging cart by its ID
func (r *GormStagingCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.StagingCart, error) {
	var cart billing.StagingCart
	if err := r.db.WithContext(ctx).Preload("Lines").First(&cart, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindByIDForStore finds a staging cart by ID within a store
func (r *GormStagingCartRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*billing.StagingCart, error) {
	var cart billing.StagingCart
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindAll finds all staging carts matching the filter
func (r *GormStagingCartRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.StagingCart, error) {
	var carts []billing.StagingCart
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.StagingCart{}).Preload("Lines"), filter)
	if err := query.Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// FindAllForStore finds all staging carts of a store
func (r *GormStagingCartRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]billing.StagingCart, error) {
	var carts []billing.StagingCart
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&billing.StagingCart{}).Preload("Lines").Where("store_id = ?", storeID),
		filter,
	)
	if err := query.Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// Save persists a staging cart and its lines
func (r *GormStagingCartRepository) Save(ctx context.Context, cart *billing.StagingCart) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(cart).Error
}

// Delete removes a staging cart and its lines
func (r *GormStagingCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&billing.StagingCartLine{}, "staging_cart_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.StagingCart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts staging carts matching the filter
func (r *GormStagingCartRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.StagingCart{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForStore counts a store's staging carts
func (r *GormStagingCartRepository) CountForStore(ctx context.Context, storeID uuid.UUID, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.StagingCart{}).
		Where("store_id = ?", storeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStagingCartRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("created_at %s", orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

var _ billing.StagingCartRepository = (*GormStagingCartRepository)(nil)
