package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	appbilling "github.com/retailpos/backend/internal/application/billing"
	appcatalog "github.com/retailpos/backend/internal/application/catalog"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ResolveByBarcode looks up a product on the remote backend. It makes
// the gateway usable as the terminal's ProductResolver in remote
// deployments.
func (g *HTTPGateway) ResolveByBarcode(ctx context.Context, storeID uuid.UUID, barcode string) (*catalog.Product, error) {
	var resp appcatalog.ProductResponse
	path := fmt.Sprintf("/api/v1/stores/%s/products/barcode/%s", storeID, barcode)
	if err := g.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return productFromResponse(resp)
}

func (g *HTTPGateway) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("staging backend unreachable",
			zap.String("path", path),
			zap.Error(err),
		)
		return shared.ErrSyncUnavailable
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode staging backend response: %w", err)
	}

	if !env.Success {
		if env.Error == nil {
			return fmt.Errorf("staging backend returned status %d", resp.StatusCode)
		}
		return domainErrorFromCode(env.Error.Code, env.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode staging backend payload: %w", err)
		}
	}
	return nil
}

// productFromResponse rebuilds the product aggregate from its wire shape
func productFromResponse(resp appcatalog.ProductResponse) (*catalog.Product, error) {
	price, err := valueobject.NewMoneyINRFromString(resp.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("parse unit price %q: %w", resp.UnitPrice, err)
	}

	product, err := catalog.NewProduct(resp.StoreID, resp.Name, resp.Barcode, price, resp.AvailableQuantity)
	if err != nil {
		return nil, err
	}
	product.ID = resp.ID
	return product, nil
}

var _ appbilling.ProductResolver = (*HTTPGateway)(nil)
