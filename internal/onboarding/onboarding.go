// Package onboarding creates new merchants with a first branch and default engagement settings.
package onboarding

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/engagement"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/receipts"
)

var (
	ErrMissingField    = errors.New("missing required field")
	ErrInvalidCategory = errors.New("invalid merchant category")
	ErrDuplicateEmail  = errors.New("a merchant with this email already exists")
)

// Input is the onboarding form
type Input struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Category       string `json:"category"`
	BranchName     string `json:"branchName"`
	BranchLocation string `json:"branchLocation"`
}

// Validate trims the form and checks every required field is present
func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.BranchName = strings.TrimSpace(in.BranchName)
	in.BranchLocation = strings.TrimSpace(in.BranchLocation)

	required := []struct{ field, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"branchName", in.BranchName},
		{"branchLocation", in.BranchLocation},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, r.field)
		}
	}

	if in.Category == "" {
		in.Category = model.CategoryGrocery
	}
	switch in.Category {
	case model.CategoryGrocery, model.CategoryFashion, model.CategoryTech, model.CategoryCafe:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	return nil
}

// NewMerchant builds a merchant from a validated form: one branch with no
// devices, offsets enabled and the default loyalty, email and receipt settings.
func NewMerchant(in Input) model.Merchant {
	promo := receipts.DefaultPromotion()
	return model.Merchant{
		ID:       "m-" + uuid.NewString(),
		Name:     in.Name,
		Email:    in.Email,
		Logo:     logoFor(in.Name),
		Category: in.Category,
		Branches: []model.Branch{{
			ID:       "b-" + uuid.NewString(),
			Name:     in.BranchName,
			Location: in.BranchLocation,
			Devices:  []model.Device{},
		}},
		SelectedNGOs:     []string{},
		OffsetEnabled:    true,
		OffsetMatching:   false,
		LoyaltyConfig:    engagement.DefaultLoyalty(),
		CESConfig:        engagement.DefaultCESConfig(),
		ReceiptPromotion: &promo,
	}
}

// Onboard validates in and appends the new merchant to merchants
func Onboard(merchants []model.Merchant, in Input) ([]model.Merchant, model.Merchant, error) {
	if err := in.Validate(); err != nil {
		return nil, model.Merchant{}, err
	}
	for _, m := range merchants {
		if strings.EqualFold(m.Email, in.Email) {
			return nil, model.Merchant{}, fmt.Errorf("%w: %s", ErrDuplicateEmail, in.Email)
		}
	}
	m := NewMerchant(in)
	if err := engagement.ValidateTree(m.CESConfig.Features); err != nil {
		return nil, model.Merchant{}, err
	}
	out := append(append(make([]model.Merchant, 0, len(merchants)+1), merchants...), m)
	return out, m, nil
}

func logoFor(name string) string {
	var initials strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		initials.WriteString(strings.ToUpper(string(r[0])))
		if initials.Len() >= 2 {
			break
		}
	}
	return "https://api.dicebear.com/7.x/initials/svg?seed=" + url.QueryEscape(initials.String()) + "&backgroundColor=065f46"
}
