package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	appbilling "github.com/retailpos/backend/internal/application/billing"
	"github.com/retailpos/backend/internal/domain/billing"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HTTPGateway drives the staging cart protocol against a remote billing
// backend instead of the in-process StagingCartService. Deployments with
// a central server point terminals here via staging.remote_url.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// HTTPGatewayConfig holds the remote backend settings
type HTTPGatewayConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPGateway creates an HTTPGateway
func NewHTTPGateway(cfg HTTPGatewayConfig, logger *zap.Logger) *HTTPGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("staging_gateway"),
	}
}

// envelope mirrors the wire format of the billing backend's responses
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCart allocates a server-side staging cart for a store
func (g *HTTPGateway) CreateCart(ctx context.Context, storeID uuid.UUID) (uuid.UUID, error) {
	var cart appbilling.StagingCartResponse
	path := fmt.Sprintf("/api/v1/stores/%s/staging-carts", storeID)
	if err := g.post(ctx, path, nil, &cart); err != nil {
		return uuid.Nil, err
	}
	return cart.ID, nil
}

// MarkScanning opens the staging cart for item additions
func (g *HTTPGateway) MarkScanning(ctx context.Context, storeID, cartID uuid.UUID) error {
	path := fmt.Sprintf("/api/v1/stores/%s/staging-carts/%s/scanning", storeID, cartID)
	return g.post(ctx, path, nil, nil)
}

// AddItem appends one cart line to the staging cart
func (g *HTTPGateway) AddItem(ctx context.Context, storeID, cartID, productID uuid.UUID, quantity int64) error {
	path := fmt.Sprintf("/api/v1/stores/%s/staging-carts/%s/items", storeID, cartID)
	body := map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	}
	return g.post(ctx, path, body, nil)
}

// ProcessPayment records the payment method and reference
func (g *HTTPGateway) ProcessPayment(ctx context.Context, storeID, cartID uuid.UUID, method billing.PaymentMethod, reference string) error {
	path := fmt.Sprintf("/api/v1/stores/%s/staging-carts/%s/payment", storeID, cartID)
	body := map[string]any{
		"method":    string(method),
		"reference": reference,
	}
	return g.post(ctx, path, body, nil)
}

// ConfirmPayment finalizes the staging cart and returns the bill the
// server produced
func (g *HTTPGateway) ConfirmPayment(ctx context.Context, storeID, cartID uuid.UUID) (*billing.Bill, error) {
	var resp appbilling.BillResponse
	path := fmt.Sprintf("/api/v1/stores/%s/staging-carts/%s/confirm", storeID, cartID)
	if err := g.post(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return billFromResponse(resp)
}

func (g *HTTPGateway) post(ctx context.Context, path string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

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

// domainErrorFromCode maps wire error codes back onto the shared sentinel
// errors so errors.Is works the same for remote and in-process gateways.
func domainErrorFromCode(code, message string) error {
	switch code {
	case shared.ErrNotFound.Code:
		return shared.ErrNotFound
	case shared.ErrAlreadyExists.Code:
		return shared.ErrAlreadyExists
	case shared.ErrInvalidState.Code:
		return shared.ErrInvalidState
	case shared.ErrStockExceeded.Code:
		return shared.ErrStockExceeded
	case shared.ErrForeignProduct.Code:
		return shared.ErrForeignProduct
	case shared.ErrEmptyCart.Code:
		return shared.ErrEmptyCart
	default:
		return shared.NewDomainError(code, message)
	}
}

// billFromResponse rebuilds the bill aggregate from its wire shape. The
// server already derived line totals; they are parsed back verbatim.
func billFromResponse(resp appbilling.BillResponse) (*billing.Bill, error) {
	total, err := decimal.NewFromString(resp.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("parse bill total %q: %w", resp.TotalAmount, err)
	}

	bill := &billing.Bill{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(resp.StoreID),
		Lines:              make([]billing.BillLine, 0, len(resp.Lines)),
		TotalAmount:        total,
		PaymentMethod:      billing.PaymentMethod(resp.PaymentMethod),
		PaymentReference:   resp.PaymentReference,
		BilledAt:           resp.BilledAt,
	}
	bill.ID = resp.ID

	for _, line := range resp.Lines {
		unitPrice, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("parse line unit price %q: %w", line.UnitPrice, err)
		}
		lineTotal, err := decimal.NewFromString(line.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("parse line total %q: %w", line.LineTotal, err)
		}
		bill.Lines = append(bill.Lines, billing.BillLine{
			BillID:    resp.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Barcode:   line.Barcode,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
	}

	return bill, nil
}

var _ appbilling.StagingGateway = (*HTTPGateway)(nil)
