package receipts

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/fixtures"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

func lines(items ...model.LineItem) model.Transaction {
	return model.Transaction{Items: items}
}

func TestApplies(t *testing.T) {
	products := fixtures.Products()
	cases := []struct {
		name      string
		condition string
		tx        model.Transaction
		want      bool
	}{
		{"always", model.PromoAlways, model.Transaction{}, true},
		{"heavy cart", model.PromoHighCO2, lines(model.LineItem{Carbon: 3}, model.LineItem{Carbon: 2.5}), true},
		{"exactly 5kg", model.PromoHighCO2, lines(model.LineItem{Carbon: 5}), false},
		{"green cart", model.PromoLowCO2, lines(model.LineItem{ProductID: "1", Quantity: 2}, model.LineItem{ProductID: "2", Quantity: 1}), true},
		{"not green enough", model.PromoLowCO2, lines(model.LineItem{ProductID: "2", Quantity: 4}), false},
		{"only unknown products", model.PromoLowCO2, lines(model.LineItem{ProductID: "ghost", Quantity: 1}), false},
		{"spend at threshold", model.PromoSpendThreshold, model.Transaction{Total: 50}, false},
		{"spend above threshold", model.PromoSpendThreshold, model.Transaction{Total: 50.01}, true},
		{"unknown condition", "SUNNY_DAY", model.Transaction{Total: 100}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := model.ReceiptPromotion{Text: "promo", Condition: tc.condition}
			if got := Applies(p, tc.tx, products); got != tc.want {
				t.Fatalf("Applies = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCartEcoScoreIsWeighted(t *testing.T) {
	tx := lines(
		model.LineItem{ProductID: "1", Quantity: 2},
		model.LineItem{ProductID: "2", Quantity: 1},
		model.LineItem{ProductID: "ghost", Quantity: 7},
	)
	want := (95.0*2 + 88) / 3
	if got := CartEcoScore(tx, fixtures.Products()); math.Abs(got-want) > 1e-9 {
		t.Fatalf("CartEcoScore = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	p, err := Validate(model.ReceiptPromotion{Text: "  Refill and save  ", Condition: model.PromoLowCO2})
	if err != nil || p.Text != "Refill and save" {
		t.Fatalf("got %+v, %v", p, err)
	}
	if _, err := Validate(model.ReceiptPromotion{Text: " ", Condition: model.PromoAlways}); !errors.Is(err, ErrMissingText) {
		t.Fatalf("expected ErrMissingText, got %v", err)
	}
	if _, err := Validate(model.ReceiptPromotion{Text: "x", Condition: "sometimes"}); !errors.Is(err, ErrInvalidCondition) {
		t.Fatalf("expected ErrInvalidCondition, got %v", err)
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	tx := model.Transaction{
		ID: "tx-1",
		Items: []model.LineItem{
			{ProductID: "1", Quantity: 2, Price: 4.50, Carbon: 0.10},
			{ProductID: "ghost", Quantity: 1, Price: 3.00, Carbon: 0.1},
		},
		Total:                    12.00,
		EcoImpactSaved:           1.2,
		CarbonOffsetContribution: 1,
		Timestamp:                now,
	}
	merchant := model.Merchant{
		Name:             "Green Grocer Co",
		ReceiptPromotion: &model.ReceiptPromotion{Text: "Bring your bag next time", Condition: model.PromoAlways},
	}

	r := Build(merchant, tx, fixtures.Products())
	if r.Merchant != "Green Grocer Co" || r.TransactionID != "tx-1" || !r.Timestamp.Equal(now) {
		t.Errorf("unexpected header %+v", r)
	}
	if len(r.Lines) != 2 || r.Lines[0].Name != "Bamboo Toothbrush" || r.Lines[0].Amount != 9.00 || r.Lines[0].EcoScore != 95 {
		t.Errorf("unexpected first line %+v", r.Lines)
	}
	if r.Lines[1].Name != "ghost" {
		t.Errorf("unknown product should print its id, got %q", r.Lines[1].Name)
	}
	if math.Abs(r.CO2Kg-0.2) > 1e-9 || math.Abs(r.TreesEquivalent-0.05) > 1e-9 {
		t.Errorf("impact = %v kg, %v trees", r.CO2Kg, r.TreesEquivalent)
	}
	if r.Promotion != "Bring your bag next time" {
		t.Errorf("promotion = %q", r.Promotion)
	}

	// default rule needs more than 5kg of CO2
	merchant.ReceiptPromotion = nil
	if r := Build(merchant, tx, fixtures.Products()); r.Promotion != "" {
		t.Errorf("default promotion printed on a light cart: %q", r.Promotion)
	}
}
