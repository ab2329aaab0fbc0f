package cron

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
)

const defaultOverdueAfter = 45 * time.Minute

// PendingSource lists the orders still out for delivery.
type PendingSource interface {
	PendingDeliveries() []orders.Order
}

// DeliveryOverdueJob warns about deliveries that have been out longer than the threshold.
// It only logs; completing a delivery is always a staff action.
type DeliveryOverdueJob struct {
	source PendingSource
	logg   *logger.Logger
	after  time.Duration
	now    func() time.Time
}

type DeliveryOverdueOption func(*DeliveryOverdueJob)

func WithOverdueClock(now func() time.Time) DeliveryOverdueOption {
	return func(j *DeliveryOverdueJob) {
		if now != nil {
			j.now = now
		}
	}
}

func NewDeliveryOverdueJob(source PendingSource, logg *logger.Logger, after time.Duration, opts ...DeliveryOverdueOption) (*DeliveryOverdueJob, error) {
	if source == nil {
		return nil, errors.New("pending source required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if after <= 0 {
		after = defaultOverdueAfter
	}
	j := &DeliveryOverdueJob{source: source, logg: logg, after: after, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *DeliveryOverdueJob) Name() string { return "delivery_overdue" }

// Run logs one warning per overdue delivery.
func (j *DeliveryOverdueJob) Run(ctx context.Context) error {
	now := j.now()
	for _, order := range j.Overdue(now) {
		j.logg.Warn(j.logg.WithFields(j.logg.WithOrderID(ctx, order.ID.String()), map[string]any{
			"courier_id":   order.CourierID,
			"courier_name": order.CourierName,
			"minutes_out":  int(now.Sub(order.CreatedAt).Minutes()),
		}), "delivery.overdue")
	}
	return nil
}

// Overdue filters the pending deliveries older than the threshold at now.
func (j *DeliveryOverdueJob) Overdue(now time.Time) []orders.Order {
	var out []orders.Order
	for _, order := range j.source.PendingDeliveries() {
		if now.Sub(order.CreatedAt) >= j.after {
			out = append(out, order)
		}
	}
	return out
}
