package negotiation

import (
	"fmt"
	"slices"
)

type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateAlternativeData checks a merchant-proposed alternative and reports
// every violation. It has no side effects and never panics on partial input.
func ValidateAlternativeData(alt *Alternative) ValidationResult {
	errs := []string{}

	if alt == nil {
		alt = &Alternative{}
	}

	switch {
	case alt.Type == "":
		errs = append(errs, "type is required")
	case !slices.Contains(ProposableAlternatives, alt.Type):
		errs = append(errs, fmt.Sprintf("type %q is not one of %v", alt.Type, ProposableAlternatives))
	}

	if alt.Type == AlternativePartialRefund && alt.Amount == nil {
		errs = append(errs, "amount is required for PARTIAL_REFUND")
	}

	if alt.Amount != nil && !alt.Amount.Value.Valid {
		errs = append(errs, "amount.value is required")
	}

	for i, item := range alt.Items {
		if item.ID == "" {
			errs = append(errs, fmt.Sprintf("items[%d].id is required", i))
		}
		if item.Name == "" {
			errs = append(errs, fmt.Sprintf("items[%d].name is required", i))
		}
		if item.Quantity < 1 {
			errs = append(errs, fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
