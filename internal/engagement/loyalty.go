package engagement

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

var (
	ErrInvalidLoyaltyType = errors.New("loyalty type must be VISIT or SPEND")
	ErrInvalidThreshold   = errors.New("threshold must not be negative")
)

// LoyaltyPreset returns the starting configuration a merchant gets when switching to typ
func LoyaltyPreset(typ string) (model.LoyaltyConfig, error) {
	switch typ {
	case model.LoyaltyVisit:
		return model.LoyaltyConfig{
			Type:        model.LoyaltyVisit,
			Threshold:   10,
			Reward:      "Free Item",
			StampDesign: &model.StampDesign{Slots: 10, Color: "#10b981", Icon: "Leaf"},
		}, nil
	case model.LoyaltySpend:
		return model.LoyaltyConfig{
			Type:      model.LoyaltySpend,
			Threshold: 100,
			Reward:    "Discount Coupon",
			CouponDesign: &model.CouponDesign{
				BackgroundColor: "#10b981",
				TextColor:       "#ffffff",
				DiscountValue:   "10%",
				Prefix:          "SAVE",
			},
		}, nil
	}
	return model.LoyaltyConfig{}, fmt.Errorf("%w: %q", ErrInvalidLoyaltyType, typ)
}

// LoyaltyPatch is a partial update of a loyalty configuration
type LoyaltyPatch struct {
	Type         *string             `json:"type"`
	Threshold    *float64            `json:"threshold"`
	Reward       *string             `json:"reward"`
	StampDesign  *model.StampDesign  `json:"stampDesign"`
	CouponDesign *model.CouponDesign `json:"couponDesign"`
}

// ApplyLoyaltyPatch merges patch into cfg. Setting a type first resets the
// configuration to that type's preset; the remaining fields are applied on top.
func ApplyLoyaltyPatch(cfg model.LoyaltyConfig, patch LoyaltyPatch) (model.LoyaltyConfig, error) {
	if patch.Type != nil {
		preset, err := LoyaltyPreset(*patch.Type)
		if err != nil {
			return cfg, err
		}
		cfg = preset
	}
	if patch.Threshold != nil {
		if *patch.Threshold < 0 {
			return cfg, ErrInvalidThreshold
		}
		cfg.Threshold = *patch.Threshold
	}
	if patch.Reward != nil {
		cfg.Reward = *patch.Reward
	}
	if patch.StampDesign != nil {
		design := *patch.StampDesign
		cfg.StampDesign = &design
	}
	if patch.CouponDesign != nil {
		design := *patch.CouponDesign
		design.Prefix = strings.ToUpper(design.Prefix)
		cfg.CouponDesign = &design
	}
	return cfg, nil
}

// Progress is how far a customer is toward the merchant's reward
type Progress struct {
	Type          string  `json:"type"`
	Current       float64 `json:"current"`
	Threshold     float64 `json:"threshold"`
	Remaining     float64 `json:"remaining"`
	Percent       float64 `json:"percent"`
	RewardsEarned int     `json:"rewardsEarned"`
	Reward        string  `json:"reward"`
}

// LoyaltyProgress measures visits for VISIT programmes and spend for SPEND programmes.
// Progress toward the next reward restarts every time the threshold is reached.
func LoyaltyProgress(cfg model.LoyaltyConfig, customer model.Customer) Progress {
	p := Progress{Type: cfg.Type, Threshold: cfg.Threshold, Reward: cfg.Reward}
	if cfg.Type == model.LoyaltyVisit {
		p.Current = float64(customer.VisitCount)
	} else {
		p.Current = customer.TotalSpend
	}

	if cfg.Threshold <= 0 {
		p.Percent = 100
		return p
	}
	p.RewardsEarned = int(math.Floor(p.Current / cfg.Threshold))
	partial := math.Mod(p.Current, cfg.Threshold)
	p.Remaining = cfg.Threshold - partial
	p.Percent = partial * 100 / cfg.Threshold
	return p
}
