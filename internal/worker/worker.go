package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/service"
	"storefront/internal/stats"
	"storefront/internal/store"

	"github.com/segmentio/kafka-go"
)

type Worker struct {
	config   *config.Config
	logger   *logger.Logger
	reader   *kafka.Reader
	activity *service.Activity
	quit     chan struct{}
}

func New(cfg *config.Config, log *logger.Logger, activity *service.Activity) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "storefront-worker",
		Topic:          cfg.KafkaTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:   cfg,
		logger:   log,
		reader:   reader,
		activity: activity,
		quit:     make(chan struct{}),
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for product events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		select {
		case <-w.quit:
			return
		default:
		}

		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				w.logger.Error("Failed to read message: %v", err)
			}
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.process(event); err != nil {
			w.logger.Error("Failed to process %s event for product %s: %v",
				event.Type, event.ProductID, err)
		}
	}
}

// process applies one event. A missing user on a keep-shopping-for
// touch is tolerated the same way a missing product is: logged, no-op.
func (w *Worker) process(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch event.Type {
	case events.TypeView:
		if err := w.activity.RecordProductEvent(ctx, event.ProductID, stats.EventView); err != nil {
			return err
		}
		if event.UserID != "" && w.config.KeepShoppingForOnView {
			err := w.activity.KeepShoppingForTouch(ctx, event.UserID, event.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				w.logger.Warn("keep shopping for: user %s not found", event.UserID)
				return nil
			}
			return err
		}
		return nil
	case events.TypeSale:
		return w.activity.RecordProductEvent(ctx, event.ProductID, stats.EventSale)
	default:
		return w.activity.RecordProductEvent(ctx, event.ProductID, stats.Event(event.Type))
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.quit)
	w.reader.Close()
}
