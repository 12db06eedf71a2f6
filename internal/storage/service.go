package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/config"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"go.uber.org/zap"
)

// Open returns the backend selected by cfg: the state service when remote
// storage is enabled, the local SQLite file otherwise.
func Open(cfg config.StorageConfig) (Backend, error) {
	if cfg.RemoteEnabled {
		return NewRemoteBackend(cfg.APIBase, cfg.Timeout), nil
	}
	return OpenLocal(cfg.LocalPath)
}

// Service is the typed view of the store used by the console
type Service struct {
	backend Backend
	log     *zap.Logger
}

// NewService wraps backend
func NewService(backend Backend, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{backend: backend, log: log}
}

// Init writes defaults[key] for every key that has never been written.
// Keys that already hold data are left untouched.
func (s *Service) Init(ctx context.Context, defaults map[string]any) error {
	for _, key := range Keys {
		data, ok := defaults[key]
		if !ok {
			continue
		}
		_, err := s.backend.Get(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("check %s: %w", key, err)
		}

		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		// another instance may seed the same key between Get and PutIf
		_, err = s.backend.PutIf(ctx, key, raw, 0)
		switch {
		case errors.Is(err, ErrVersionConflict):
			s.log.Debug("Collection seeded concurrently", zap.String("key", key))
		case err != nil:
			return fmt.Errorf("seed %s: %w", key, err)
		default:
			s.log.Info("Seeded collection", zap.String("key", key))
		}
	}
	return nil
}

// Get returns the raw document under key
func (s *Service) Get(ctx context.Context, key string) (Record, error) {
	return s.backend.Get(ctx, key)
}

// Close releases the backend
func (s *Service) Close() error {
	return s.backend.Close()
}

func (s *Service) Merchants(ctx context.Context) ([]model.Merchant, error) {
	items, _, err := load[model.Merchant](ctx, s.backend, KeyMerchants)
	return items, err
}

func (s *Service) SaveMerchants(ctx context.Context, merchants []model.Merchant) error {
	return save(ctx, s.backend, KeyMerchants, merchants)
}

// UpdateMerchants applies fn to the stored merchants and writes the result
// only if no other writer changed them in between.
func (s *Service) UpdateMerchants(ctx context.Context, fn func([]model.Merchant) ([]model.Merchant, error)) error {
	return update(ctx, s.backend, KeyMerchants, fn)
}

func (s *Service) Products(ctx context.Context) ([]model.Product, error) {
	items, _, err := load[model.Product](ctx, s.backend, KeyProducts)
	return items, err
}

func (s *Service) SaveProducts(ctx context.Context, products []model.Product) error {
	return save(ctx, s.backend, KeyProducts, products)
}

func (s *Service) UpdateProducts(ctx context.Context, fn func([]model.Product) ([]model.Product, error)) error {
	return update(ctx, s.backend, KeyProducts, fn)
}

func (s *Service) Transactions(ctx context.Context) ([]model.Transaction, error) {
	items, _, err := load[model.Transaction](ctx, s.backend, KeyTransactions)
	return items, err
}

func (s *Service) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	return save(ctx, s.backend, KeyTransactions, transactions)
}

func (s *Service) UpdateTransactions(ctx context.Context, fn func([]model.Transaction) ([]model.Transaction, error)) error {
	return update(ctx, s.backend, KeyTransactions, fn)
}

func (s *Service) Customers(ctx context.Context) ([]model.Customer, error) {
	items, _, err := load[model.Customer](ctx, s.backend, KeyCustomers)
	return items, err
}

func (s *Service) SaveCustomers(ctx context.Context, customers []model.Customer) error {
	return save(ctx, s.backend, KeyCustomers, customers)
}

func (s *Service) UpdateCustomers(ctx context.Context, fn func([]model.Customer) ([]model.Customer, error)) error {
	return update(ctx, s.backend, KeyCustomers, fn)
}

func (s *Service) Tickets(ctx context.Context) ([]model.Ticket, error) {
	items, _, err := load[model.Ticket](ctx, s.backend, KeyTickets)
	return items, err
}

func (s *Service) SaveTickets(ctx context.Context, tickets []model.Ticket) error {
	return save(ctx, s.backend, KeyTickets, tickets)
}

func (s *Service) UpdateTickets(ctx context.Context, fn func([]model.Ticket) ([]model.Ticket, error)) error {
	return update(ctx, s.backend, KeyTickets, fn)
}

func (s *Service) Operators(ctx context.Context) ([]model.Operator, error) {
	items, _, err := load[model.Operator](ctx, s.backend, KeyOperators)
	return items, err
}

func (s *Service) SaveOperators(ctx context.Context, operators []model.Operator) error {
	return save(ctx, s.backend, KeyOperators, operators)
}

// load decodes the collection under key. A key that was never written reads
// as an empty collection at version 0.
func load[T any](ctx context.Context, b Backend, key string) ([]T, int64, error) {
	rec, err := b.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	var items []T
	if err := json.Unmarshal(rec.Data, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, rec.Version, nil
}

func encode[T any](key string, items []T) (json.RawMessage, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return raw, nil
}

func save[T any](ctx context.Context, b Backend, key string, items []T) error {
	raw, err := encode(key, items)
	if err != nil {
		return err
	}
	_, err = b.Put(ctx, key, raw)
	return err
}

func update[T any](ctx context.Context, b Backend, key string, fn func([]T) ([]T, error)) error {
	items, version, err := load[T](ctx, b, key)
	if err != nil {
		return err
	}
	items, err = fn(items)
	if err != nil {
		return err
	}
	raw, err := encode(key, items)
	if err != nil {
		return err
	}
	_, err = b.PutIf(ctx, key, raw, version)
	return err
}
