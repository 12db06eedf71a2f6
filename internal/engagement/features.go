// Package engagement implements the lifecycle email suite and loyalty programme settings of a merchant.
package engagement

import (
	"errors"
	"fmt"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

var (
	ErrFeatureNotFound    = errors.New("feature not found")
	ErrFeatureCycle       = errors.New("feature tree contains a cycle")
	ErrFeatureNotLicensed = errors.New("feature is not licensed")
	ErrInvalidPeriod      = errors.New("invalid marketing period")
)

// ToggleFeature changes one flag of the feature with id and returns the updated list.
// A license change sets isLicensed and, when revoking, clears isActive as well.
// Any other change sets isActive. Switching off applies the same change to every
// descendant. The input slice is never modified.
func ToggleFeature(features []model.CESFeature, id string, value, licenseChange bool) ([]model.CESFeature, error) {
	idx := indexOf(features, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	if err := ValidateTree(features); err != nil {
		return nil, err
	}
	if !licenseChange && value && !features[idx].IsLicensed {
		return nil, fmt.Errorf("%w: %s", ErrFeatureNotLicensed, id)
	}

	targets := []string{id}
	if !value {
		descendants, err := Descendants(features, id)
		if err != nil {
			return nil, err
		}
		targets = append(targets, descendants...)
	}

	updated := make([]model.CESFeature, len(features))
	copy(updated, features)
	for _, target := range targets {
		i := indexOf(updated, target)
		if licenseChange {
			updated[i].IsLicensed = value
			if !value {
				updated[i].IsActive = false
			}
		} else {
			updated[i].IsActive = value
		}
	}
	return updated, nil
}

// Descendants returns the ids of every feature below id, parents before children.
func Descendants(features []model.CESFeature, id string) ([]string, error) {
	if indexOf(features, id) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	children := childIndex(features)

	var out []string
	visited := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if visited[child] {
				return nil, fmt.Errorf("%w: %s is reachable twice", ErrFeatureCycle, child)
			}
			visited[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out, nil
}

// ValidateTree checks that following parentId from any feature never loops.
func ValidateTree(features []model.CESFeature) error {
	parents := make(map[string]string, len(features))
	for _, f := range features {
		parents[f.ID] = f.ParentID
	}
	for _, f := range features {
		seen := map[string]bool{}
		for current := f.ID; current != ""; current = parents[current] {
			if seen[current] {
				return fmt.Errorf("%w: %s", ErrFeatureCycle, current)
			}
			seen[current] = true
		}
	}
	return nil
}

// SetMarketingPeriod changes the campaign frequency
func SetMarketingPeriod(cfg model.CESConfig, period string) (model.CESConfig, error) {
	switch period {
	case model.PeriodDaily, model.PeriodWeekly, model.PeriodMonthly:
	default:
		return cfg, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	cfg.MarketingPeriod = period
	return cfg, nil
}

// FindFeature returns the feature with id
func FindFeature(features []model.CESFeature, id string) (model.CESFeature, error) {
	idx := indexOf(features, id)
	if idx < 0 {
		return model.CESFeature{}, fmt.Errorf("%w: %s", ErrFeatureNotFound, id)
	}
	return features[idx], nil
}

func indexOf(features []model.CESFeature, id string) int {
	for i := range features {
		if features[i].ID == id {
			return i
		}
	}
	return -1
}

func childIndex(features []model.CESFeature) map[string][]string {
	children := make(map[string][]string)
	for _, f := range features {
		if f.ParentID != "" {
			children[f.ParentID] = append(children[f.ParentID], f.ID)
		}
	}
	return children
}
