package application

import (
	"context"
	"fmt"

	"wagerbook/domain/interfaces"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// SettlementWorker runs settlement passes on a cron schedule
type SettlementWorker struct {
	runner   interfaces.SettlementRunner
	schedule string
}

// NewSettlementWorker creates a worker running passes on the given cron spec.
// The spec includes a leading seconds field.
func NewSettlementWorker(runner interfaces.SettlementRunner, schedule string) *SettlementWorker {
	return &SettlementWorker{
		runner:   runner,
		schedule: schedule,
	}
}

// Start schedules the settlement passes and returns a function that stops the
// scheduler and waits for a running pass to finish
func (w *SettlementWorker) Start(ctx context.Context) (func(), error) {
	scheduler := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)

	if _, err := scheduler.AddFunc(w.schedule, func() { w.runPass(ctx) }); err != nil {
		return nil, fmt.Errorf("invalid settlement schedule %q: %w", w.schedule, err)
	}

	scheduler.Start()
	log.WithField("schedule", w.schedule).Info("Settlement worker started")

	return func() {
		log.Info("Settlement worker shutting down...")
		<-scheduler.Stop().Done()
		log.Info("Settlement worker stopped")
	}, nil
}

func (w *SettlementWorker) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	summary, err := w.runner.RunSettlementPass(ctx)
	if err != nil {
		log.WithError(err).Error("Scheduled settlement pass failed")
		return
	}

	log.WithFields(log.Fields{
		"settled":  summary.SettledCount,
		"deferred": summary.Deferred,
		"failed":   summary.Failed,
	}).Debug("Scheduled settlement pass finished")
}

// cronLogger routes the scheduler's own messages through logrus
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.WithFields(cronFields(keysAndValues)).Debug("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.WithFields(cronFields(keysAndValues)).WithError(err).Error("cron: " + msg)
}

func cronFields(keysAndValues []interface{}) log.Fields {
	fields := log.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
