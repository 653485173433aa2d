package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StagingCartService is the server side of the checkout protocol. It
// backs the HTTP staging endpoints and doubles as the in-process
// StagingGateway when the terminal and the backend run in one binary.
//
// Steps 1-4 touch only the staging cart; availability checks before
// confirmation are advisory. Confirmation re-checks and decrements stock
// inside a single transaction - that decrement is the point of truth for
// concurrent checkouts across terminals.
type StagingCartService struct {
	stagingRepo    billing.StagingCartRepository
	productRepo    catalog.ProductRepository
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStagingCartService creates a StagingCartService
func NewStagingCartService(
	stagingRepo billing.StagingCartRepository,
	productRepo catalog.ProductRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *StagingCartService {
	return &StagingCartService{
		stagingRepo: stagingRepo,
		productRepo: productRepo,
		scope:       scope,
		logger:      logger.Named("staging_cart"),
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *StagingCartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateCart allocates a staging cart for a store
func (s *StagingCartService) CreateCart(ctx context.Context, storeID uuid.UUID) (uuid.UUID, error) {
	cart, err := billing.NewStagingCart(storeID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.stagingRepo.Save(ctx, cart); err != nil {
		return uuid.Nil, err
	}
	return cart.ID, nil
}

// MarkScanning opens the staging cart for item additions
func (s *StagingCartService) MarkScanning(ctx context.Context, storeID, cartID uuid.UUID) error {
	cart, err := s.stagingRepo.FindByIDForStore(ctx, storeID, cartID)
	if err != nil {
		return err
	}
	if err := cart.MarkScanning(); err != nil {
		return err
	}
	return s.stagingRepo.Save(ctx, cart)
}

// AddItem appends a product line, validating the product belongs to the
// store and the accumulated quantity is coverable by current stock
func (s *StagingCartService) AddItem(ctx context.Context, storeID, cartID, productID uuid.UUID, quantity int64) error {
	cart, err := s.stagingRepo.FindByIDForStore(ctx, storeID, cartID)
	if err != nil {
		return err
	}
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return err
	}

	accumulated := quantity
	for _, line := range cart.Lines {
		if line.ProductID == productID {
			accumulated += line.Quantity
		}
	}
	if !product.CanFulfill(accumulated) {
		return shared.ErrStockExceeded
	}

	if err := cart.AddLine(productID, quantity); err != nil {
		return err
	}
	return s.stagingRepo.Save(ctx, cart)
}

// ProcessPayment records the payment method and reference
func (s *StagingCartService) ProcessPayment(ctx context.Context, storeID, cartID uuid.UUID, method billing.PaymentMethod, reference string) error {
	cart, err := s.stagingRepo.FindByIDForStore(ctx, storeID, cartID)
	if err != nil {
		return err
	}
	if err := cart.RecordPayment(method, reference); err != nil {
		return err
	}
	return s.stagingRepo.Save(ctx, cart)
}

// ConfirmPayment finalizes the staging cart: re-checks availability,
// decrements every product and writes the bill, all in one transaction.
// Nothing is decremented and no bill exists unless the whole step
// succeeds.
func (s *StagingCartService) ConfirmPayment(ctx context.Context, storeID, cartID uuid.UUID) (*billing.Bill, error) {
	var bill *billing.Bill
	var confirmed *billing.StagingCart

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		cart, err := repos.StagingCarts().FindByIDForStore(ctx, storeID, cartID)
		if err != nil {
			return err
		}
		if err := cart.Confirm(); err != nil {
			return err
		}

		inputs := make([]billing.BillLineInput, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			product, err := repos.Products().FindByIDForStore(ctx, storeID, line.ProductID)
			if err != nil {
				return err
			}
			if err := product.Decrement(line.Quantity); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}
			inputs = append(inputs, billing.BillLineInput{
				ProductID: product.ID,
				Name:      product.Name,
				Barcode:   product.Barcode,
				Quantity:  line.Quantity,
				UnitPrice: product.UnitPrice,
			})
		}

		created, err := billing.NewBill(storeID, inputs, cart.PaymentMethod, cart.PaymentReference)
		if err != nil {
			return err
		}
		if err := repos.Bills().Save(ctx, created); err != nil {
			return err
		}
		if err := repos.StagingCarts().Save(ctx, cart); err != nil {
			return err
		}

		bill = created
		confirmed = cart
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, bill, confirmed)

	s.logger.Info("staging cart confirmed",
		zap.String("staging_cart_id", cartID.String()),
		zap.String("bill_id", bill.ID.String()),
	)

	return bill, nil
}

// GetCart loads a staging cart for inspection
func (s *StagingCartService) GetCart(ctx context.Context, storeID, cartID uuid.UUID) (*billing.StagingCart, error) {
	return s.stagingRepo.FindByIDForStore(ctx, storeID, cartID)
}

func (s *StagingCartService) publishDomainEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, aggregate := range aggregates {
		events := aggregate.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		// Errors are logged by the bus, not propagated.
		_ = s.eventPublisher.Publish(ctx, events...)
		aggregate.ClearDomainEvents()
	}
}

// Ensure StagingCartService implements StagingGateway
var _ StagingGateway = (*StagingCartService)(nil)
