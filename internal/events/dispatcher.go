package events

import (
	"context"
	"time"

	"storefront/internal/logger"
	"storefront/internal/service"
	"storefront/internal/tasks"
)

// Dispatcher is what the HTTP layer calls when a qualifying event
// happens. With a publisher configured the event goes to Kafka for the
// worker to apply; without one it is applied in-process. Either way the
// caller's response never waits on the outcome.
type Dispatcher struct {
	publisher Publisher // nil means apply locally
	activity  *service.Activity
	runner    *tasks.Runner
	logger    *logger.Logger
}

func NewDispatcher(publisher Publisher, activity *service.Activity, runner *tasks.Runner, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		activity:  activity,
		runner:    runner,
		logger:    log,
	}
}

// ProductViewed emits a view event for the product, attributed to the
// user when one is known.
func (d *Dispatcher) ProductViewed(productID, userID string) {
	if d.publisher == nil {
		d.activity.ProductViewed(productID, userID)
		return
	}
	d.publish(Event{
		Type:      TypeView,
		ProductID: productID,
		UserID:    userID,
		Timestamp: time.Now(),
	})
}

// ProductPurchased emits a sale event for the product.
func (d *Dispatcher) ProductPurchased(productID string) {
	if d.publisher == nil {
		d.activity.ProductPurchased(productID)
		return
	}
	d.publish(Event{
		Type:      TypeSale,
		ProductID: productID,
		Timestamp: time.Now(),
	})
}

func (d *Dispatcher) publish(event Event) {
	d.runner.Submit("publish "+event.Type, func(ctx context.Context) error {
		return d.publisher.Publish(ctx, event)
	})
}
