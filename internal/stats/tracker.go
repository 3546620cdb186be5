// Package stats maintains per-product view/sale counters and the
// popular/trending flags derived from them.
package stats

import (
	"errors"
	"fmt"

	"storefront/internal/models"
)

// Event is a counted product event.
type Event string

const (
	EventView Event = "view"
	EventSale Event = "sale"
)

// ErrUnknownEvent is returned for events outside {view, sale}. Counters
// and flags are left untouched in that case.
var ErrUnknownEvent = errors.New("unknown stats event")

// Tracker derives classification flags from running counters. The
// thresholds are configuration, not constants; a flag is always a pure
// function of the counters at the moment of the last update.
type Tracker struct {
	PopularityThreshold int64
	TrendingThreshold   int64
}

// Record applies one event to the product: exactly one counter goes up
// by 1 and both flags are recomputed.
func (t Tracker) Record(p *models.Product, event Event) error {
	switch event {
	case EventView:
		p.Views++
	case EventSale:
		p.Sales++
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	t.Refresh(p)
	return nil
}

// Refresh recomputes both flags from the current counters.
func (t Tracker) Refresh(p *models.Product) {
	p.IsPopular = p.Sales > t.PopularityThreshold
	p.IsTrending = p.Views > t.TrendingThreshold
}
