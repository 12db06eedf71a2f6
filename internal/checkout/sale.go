package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must not be negative")
	// ErrNotSynced means the sale was recorded but a follow-up write failed
	ErrNotSynced = errors.New("sale recorded but not synced")
)

// Store is the part of the storage service a sale touches
type Store interface {
	Products(ctx context.Context) ([]model.Product, error)
	Merchants(ctx context.Context) ([]model.Merchant, error)
	UpdateTransactions(ctx context.Context, fn func([]model.Transaction) ([]model.Transaction, error)) error
	UpdateProducts(ctx context.Context, fn func([]model.Product) ([]model.Product, error)) error
	UpdateCustomers(ctx context.Context, fn func([]model.Customer) ([]model.Customer, error)) error
}

// SaleRequest is a completed cart
type SaleRequest struct {
	Items      []Item `json:"items"`
	CustomerID string `json:"customerId,omitempty"`
	MerchantID string `json:"merchantId,omitempty"`
}

// BuildTransaction prices items with PriceItems. Line carbon is the product
// footprint times quantity.
func BuildTransaction(items []Item, products []model.Product, matched bool, now time.Time) (model.Transaction, error) {
	priced, err := PriceItems(items, products)
	if err != nil {
		return model.Transaction{}, err
	}

	lines := make([]model.LineItem, 0, len(priced))
	for _, it := range priced {
		carbon := DefaultLineCarbon
		if idx := model.FindProduct(products, it.ProductID); idx >= 0 {
			carbon = products[idx].CarbonFootprint * float64(it.Quantity)
		}
		lines = append(lines, model.LineItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Carbon:    carbon,
		})
	}

	return model.Transaction{
		ID:                       uuid.NewString(),
		Items:                    lines,
		Total:                    Total(priced),
		EcoImpactSaved:           EcoImpact(priced, products),
		CarbonOffsetContribution: OffsetContribution,
		IsMatched:                matched,
		Timestamp:                now,
	}, nil
}

// DecrementStock returns a copy of products with each sold quantity taken off.
// Stock is allowed to go negative.
func DecrementStock(products []model.Product, lines []model.LineItem) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)
	for _, line := range lines {
		if idx := model.FindProduct(out, line.ProductID); idx >= 0 {
			out[idx].Stock -= line.Quantity
		}
	}
	return out
}

// RecordVisit credits a sale to the customer with id, returning false when there is no such customer
func RecordVisit(customers []model.Customer, id string, total float64, at time.Time) ([]model.Customer, bool) {
	out := make([]model.Customer, len(customers))
	copy(out, customers)
	for i := range out {
		if out[i].ID == id {
			out[i].VisitCount++
			out[i].TotalSpend += total
			out[i].LastVisit = at
			return out, true
		}
	}
	return out, false
}

// Service records sales
type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, now: time.Now}
}

// CompleteSale saves the transaction, then the decremented stock, then the
// customer's visit. Nothing is rolled back: when a write after the transaction
// fails, the transaction is returned together with ErrNotSynced.
func (s *Service) CompleteSale(ctx context.Context, req SaleRequest) (model.Transaction, error) {
	log := logger.FromContextOr(ctx, s.log)

	products, err := s.store.Products(ctx)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("load products: %w", err)
	}
	matched, err := s.isMatched(ctx, req.MerchantID)
	if err != nil {
		return model.Transaction{}, err
	}

	tx, err := BuildTransaction(req.Items, products, matched, s.now())
	if err != nil {
		return model.Transaction{}, err
	}
	tx.CustomerID = req.CustomerID
	tx.MerchantID = req.MerchantID

	err = s.store.UpdateTransactions(ctx, func(txs []model.Transaction) ([]model.Transaction, error) {
		return append(txs, tx), nil
	})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	err = s.store.UpdateProducts(ctx, func(current []model.Product) ([]model.Product, error) {
		return DecrementStock(current, tx.Items), nil
	})
	if err != nil {
		log.Error("Stock update failed after sale", zap.String("transaction_id", tx.ID), zap.Error(err))
		return tx, fmt.Errorf("%w: stock: %w", ErrNotSynced, err)
	}

	if req.CustomerID != "" {
		found := true
		err = s.store.UpdateCustomers(ctx, func(current []model.Customer) ([]model.Customer, error) {
			var updated []model.Customer
			updated, found = RecordVisit(current, req.CustomerID, tx.Total, tx.Timestamp)
			return updated, nil
		})
		if err != nil {
			log.Error("Customer update failed after sale", zap.String("transaction_id", tx.ID), zap.Error(err))
			return tx, fmt.Errorf("%w: customer: %w", ErrNotSynced, err)
		}
		if !found {
			log.Warn("Sale references unknown customer", zap.String("customer_id", req.CustomerID))
		}
	}

	log.Info("Sale completed",
		zap.String("transaction_id", tx.ID),
		zap.Float64("total", tx.Total),
		zap.Int("lines", len(tx.Items)))
	return tx, nil
}

// isMatched reports whether the merchant matches the customer's offset.
// Sales not tied to a merchant are treated as matched.
func (s *Service) isMatched(ctx context.Context, merchantID string) (bool, error) {
	if merchantID == "" {
		return true, nil
	}
	merchants, err := s.store.Merchants(ctx)
	if err != nil {
		return false, fmt.Errorf("load merchants: %w", err)
	}
	idx := model.FindMerchant(merchants, merchantID)
	if idx < 0 {
		return true, nil
	}
	m := merchants[idx]
	return m.OffsetEnabled && m.OffsetMatching, nil
}
