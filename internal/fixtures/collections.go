package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/config"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/jwtutil"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Operators builds the admin and merchant logins from cfg with bcrypt-hashed passwords
func Operators(cfg config.SeedConfig) ([]model.Operator, error) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	merchantHash, err := bcrypt.GenerateFromPassword([]byte(cfg.MerchantPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash merchant password: %w", err)
	}

	return []model.Operator{
		{
			ID:           uuid.NewString(),
			Email:        cfg.AdminEmail,
			PasswordHash: string(adminHash),
			Role:         jwtutil.RoleAdmin,
		},
		{
			ID:           uuid.NewString(),
			Email:        cfg.MerchantEmail,
			PasswordHash: string(merchantHash),
			Role:         jwtutil.RoleMerchant,
			MerchantID:   cfg.MerchantID,
		},
	}, nil
}

// Collections maps every storage key to its starting content
func Collections(now time.Time, operators []model.Operator) map[string]any {
	if operators == nil {
		operators = []model.Operator{}
	}
	return map[string]any{
		storage.KeyMerchants:    Merchants(now),
		storage.KeyProducts:     Products(),
		storage.KeyCustomers:    Customers(now),
		storage.KeyTickets:      Tickets(now),
		storage.KeyTransactions: []model.Transaction{},
		storage.KeyOperators:    operators,
	}
}

// Write overwrites every collection in s with the demo network
func Write(ctx context.Context, s *storage.Service, now time.Time, operators []model.Operator) error {
	if err := s.SaveMerchants(ctx, Merchants(now)); err != nil {
		return fmt.Errorf("write merchants: %w", err)
	}
	if err := s.SaveProducts(ctx, Products()); err != nil {
		return fmt.Errorf("write products: %w", err)
	}
	if err := s.SaveCustomers(ctx, Customers(now)); err != nil {
		return fmt.Errorf("write customers: %w", err)
	}
	if err := s.SaveTickets(ctx, Tickets(now)); err != nil {
		return fmt.Errorf("write tickets: %w", err)
	}
	if err := s.SaveTransactions(ctx, nil); err != nil {
		return fmt.Errorf("write transactions: %w", err)
	}
	if err := s.SaveOperators(ctx, operators); err != nil {
		return fmt.Errorf("write operators: %w", err)
	}
	return nil
}
