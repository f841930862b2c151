package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RecordCounter is the storage view the collector needs
type RecordCounter interface {
	CountRooms(ctx context.Context) (int64, error)
	CountParticipants(ctx context.Context) (int64, error)
}

// BusinessMetricsCollector refreshes storage gauges on a cron schedule
type BusinessMetricsCollector struct {
	store   RecordCounter
	metrics *Metrics
	logger  *zap.Logger
	cron    *cron.Cron
}

// NewBusinessMetricsCollector creates a collector; schedule uses cron syntax, e.g. "@every 1m"
func NewBusinessMetricsCollector(store RecordCounter, metrics *Metrics, schedule string, logger *zap.Logger) (*BusinessMetricsCollector, error) {
	c := &BusinessMetricsCollector{
		store:   store,
		metrics: metrics,
		logger:  logger,
		cron:    cron.New(),
	}

	if _, err := c.cron.AddFunc(schedule, c.Collect); err != nil {
		return nil, fmt.Errorf("invalid metrics schedule %q: %w", schedule, err)
	}

	return c, nil
}

// Start collects once immediately, then on every scheduled tick
func (c *BusinessMetricsCollector) Start() {
	go c.Collect()
	c.cron.Start()
}

// Stop stops the scheduler and waits for a running collection to finish
func (c *BusinessMetricsCollector) Stop() {
	<-c.cron.Stop().Done()
}

// Collect gathers business metrics
func (c *BusinessMetricsCollector) Collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if roomCount, err := c.store.CountRooms(ctx); err != nil {
		c.logger.Error("Failed to count rooms", zap.Error(err))
	} else {
		c.metrics.SetRoomsTotal(roomCount)
	}

	if participantCount, err := c.store.CountParticipants(ctx); err != nil {
		c.logger.Error("Failed to count participants", zap.Error(err))
	} else {
		c.metrics.SetParticipantsTotal(participantCount)
	}
}
