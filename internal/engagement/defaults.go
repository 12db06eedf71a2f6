package engagement

import "github.com/greentill2020-cloud/greentillcmsProd/internal/model"

// DefaultLoyalty is the programme a newly onboarded merchant starts with
func DefaultLoyalty() model.LoyaltyConfig {
	cfg, _ := LoyaltyPreset(model.LoyaltyVisit)
	return cfg
}

// DefaultCESConfig is the lifecycle email tree a newly onboarded merchant starts with.
// Transactional receipts are licensed and live; marketing waits for an admin.
func DefaultCESConfig() model.CESConfig {
	return model.CESConfig{
		MarketingPeriod: model.PeriodWeekly,
		Features: []model.CESFeature{
			{
				ID:          "tc_email",
				Name:        "Transaction Confirmation",
				Description: "Digital receipt sent after every sale",
				IsLicensed:  true,
				IsActive:    true,
				Template: model.EmailTemplate{
					Subject: "Thanks for shopping with us, {{customer_name}}",
					Body:    "Hi {{customer_name}},\n\nYour receipt for order {{transaction_id}} is attached.",
				},
			},
			{
				ID:          "warranty_email",
				Name:        "Warranty Registration",
				Description: "Warranty details for eligible purchases",
				ParentID:    "tc_email",
				IsLicensed:  true,
				Template: model.EmailTemplate{
					Subject: "Register your warranty, {{customer_name}}",
					Body:    "Your purchase on order {{transaction_id}} qualifies for an extended warranty.",
				},
			},
			{
				ID:          "review_email",
				Name:        "Review Request",
				Description: "Asks for feedback a few days after purchase",
				ParentID:    "tc_email",
				IsLicensed:  true,
				Template: model.EmailTemplate{
					Subject: "How did we do, {{customer_name}}?",
					Body:    "Tell us about your experience with order {{transaction_id}}.",
				},
			},
			{
				ID:          "marketing_email",
				Name:        "Marketing Campaigns",
				Description: "Periodic offers to opted-in customers",
				Template: model.EmailTemplate{
					Subject: "New arrivals for you, {{customer_name}}",
					Body:    "Here is what is new in store this week.",
				},
			},
			{
				ID:          "winback_email",
				Name:        "Win-back Offer",
				Description: "Incentive for customers who have not visited lately",
				ParentID:    "marketing_email",
				Template: model.EmailTemplate{
					Subject: "We miss you, {{customer_name}}",
					Body:    "Come back this month and enjoy a treat on us.",
				},
			},
		},
	}
}
