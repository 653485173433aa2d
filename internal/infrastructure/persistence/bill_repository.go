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

// GormBillRepository implements BillRepository using GORM. Bills are
// immutable once written; the repository exposes no update or delete.
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Save inserts a bill with its lines
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

// FindByIDForStore loads a bill with its lines
func (r *GormBillRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*billing.Bill, error) {
	var bill billing.Bill
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindAllForStore lists a store's bills, newest first by default
func (r *GormBillRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]billing.Bill, error) {
	var bills []billing.Bill
	query := r.db.WithContext(ctx).Model(&billing.Bill{}).Preload("Lines").
		Where("store_id = ?", storeID)

	orderBy := ValidateSortField(filter.OrderBy, BillSortFields, "billed_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// CountForStore counts a store's bills
func (r *GormBillRepository) CountForStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Bill{}).
		Where("store_id = ?", storeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.BillRepository = (*GormBillRepository)(nil)
