package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StoreService handles store CRUD. Thin by design - stores are a
// collaborator of the billing pipeline, not its subject.
type StoreService struct {
	storeRepo catalog.StoreRepository
	logger    *zap.Logger
}

// NewStoreService creates a StoreService
func NewStoreService(storeRepo catalog.StoreRepository, logger *zap.Logger) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		logger:    logger.Named("store"),
	}
}

// CreateStore registers a new store
func (s *StoreService) CreateStore(ctx context.Context, req CreateStoreRequest) (*StoreResponse, error) {
	store, err := catalog.NewStore(req.Name, req.Address, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}

	s.logger.Info("store created", zap.String("store_id", store.ID.String()))

	response := ToStoreResponse(store)
	return &response, nil
}

// GetStore loads one store
func (s *StoreService) GetStore(ctx context.Context, storeID uuid.UUID) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	response := ToStoreResponse(store)
	return &response, nil
}

// ListStores returns a page of stores
func (s *StoreService) ListStores(ctx context.Context, filter shared.Filter) (shared.Paginated[StoreResponse], error) {
	stores, err := s.storeRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[StoreResponse]{}, err
	}
	total, err := s.storeRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[StoreResponse]{}, err
	}

	responses := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		responses = append(responses, ToStoreResponse(&stores[i]))
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// UpdateStore changes a store's details
func (s *StoreService) UpdateStore(ctx context.Context, storeID uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := store.Update(req.Name, req.Address, req.Phone); err != nil {
		return nil, err
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	response := ToStoreResponse(store)
	return &response, nil
}

// DeleteStore removes a store
func (s *StoreService) DeleteStore(ctx context.Context, storeID uuid.UUID) error {
	return s.storeRepo.Delete(ctx, storeID)
}
