package catalog

import (
	"strings"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
)

// Store represents a retail outlet that owns products and bills
type Store struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:text"`
	Phone   string `gorm:"type:varchar(20)"`
	GSTIN   string `gorm:"type:varchar(20)"` // GST identification number, optional
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store
func NewStore(name, address, phone string) (*Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}

	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
		Phone:             phone,
	}, nil
}

// Update changes the store's mutable details
func (s *Store) Update(name, address, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}

	s.Name = name
	s.Address = address
	s.Phone = phone
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}
