package quote

import (
	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

type Outcome string

const (
	// OutcomeMatched keeps the previous selection at its new price.
	OutcomeMatched Outcome = "matched"
	// OutcomeReselected falls back to the first rate the backend returned.
	OutcomeReselected Outcome = "reselected"
	// OutcomeNoQuotes means the route has no rates; the user must edit the
	// route rather than retry.
	OutcomeNoQuotes Outcome = "no_quotes"
)

type Reconciliation struct {
	Outcome         Outcome
	PreviousQuoteID string
	Selected        *models.Rate
}

func (r Reconciliation) SelectedQuoteID() string {
	if r.Selected == nil {
		return ""
	}
	return r.Selected.QuoteID
}

// Reselected reports whether the selection moved away from the previous quote.
func (r Reconciliation) Reselected() bool {
	return r.Outcome == OutcomeReselected
}

// Reconcile carries a previous selection across freshly fetched rates.
// Rates are never re-sorted; backend ordering decides the fallback.
func Reconcile(previousQuoteID string, rates []models.Rate) Reconciliation {
	result := Reconciliation{PreviousQuoteID: previousQuoteID}

	if len(rates) == 0 {
		result.Outcome = OutcomeNoQuotes
		return result
	}

	for i := range rates {
		if previousQuoteID != "" && rates[i].QuoteID == previousQuoteID {
			selected := rates[i]
			result.Outcome = OutcomeMatched
			result.Selected = &selected
			return result
		}
	}

	selected := rates[0]
	result.Outcome = OutcomeReselected
	result.Selected = &selected
	return result
}

// ReconcilePriceChange reconciles against the new quotes carried by a
// QUOTE_PRICE_CHANGED rejection.
func ReconcilePriceChange(previousQuoteID string, change *apperrors.PriceChange) Reconciliation {
	if change == nil {
		return Reconcile(previousQuoteID, nil)
	}
	return Reconcile(previousQuoteID, change.NewQuotes)
}
