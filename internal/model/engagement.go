package model

import "time"

// Loyalty programme types
const (
	LoyaltyVisit = "VISIT"
	LoyaltySpend = "SPEND"
)

// LoyaltyConfig is a merchant's reward rule and its card design
type LoyaltyConfig struct {
	Type         string        `json:"type"`
	Threshold    float64       `json:"threshold"`
	Reward       string        `json:"reward"`
	StampDesign  *StampDesign  `json:"stampDesign,omitempty"`
	CouponDesign *CouponDesign `json:"couponDesign,omitempty"`
}

// StampDesign is the visual of a VISIT stamp card
type StampDesign struct {
	Slots int    `json:"slots"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// CouponDesign is the visual of a SPEND coupon
type CouponDesign struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	DiscountValue   string `json:"discountValue"`
	Prefix          string `json:"prefix"`
}

// Campaign frequencies of the marketing sequence
const (
	PeriodDaily   = "DAILY"
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
)

// CESConfig is the lifecycle email configuration of a merchant
type CESConfig struct {
	Features        []CESFeature `json:"features"`
	MarketingPeriod string       `json:"marketingPeriod,omitempty"`
}

// CESFeature is one lifecycle email step. Admins license it, merchants activate it.
type CESFeature struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	ParentID    string        `json:"parentId,omitempty"`
	IsLicensed  bool          `json:"isLicensed"`
	IsActive    bool          `json:"isActive"`
	Template    EmailTemplate `json:"template"`
}

// EmailTemplate is the content sent when a feature fires
type EmailTemplate struct {
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	BannerImage string       `json:"bannerImage,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	LastUpdated *time.Time   `json:"lastUpdated,omitempty"`
}

// Attachment is a document sent with a template
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size string `json:"size"`
	Type string `json:"type"`
}

// Receipt promotion display conditions
const (
	PromoAlways         = "ALWAYS"
	PromoHighCO2        = "HIGH_CO2"
	PromoLowCO2         = "LOW_CO2"
	PromoSpendThreshold = "SPEND_THRESHOLD"
)

// ReceiptPromotion is text printed on receipts whose sale meets Condition
type ReceiptPromotion struct {
	Text      string `json:"text"`
	Condition string `json:"condition"`
}
