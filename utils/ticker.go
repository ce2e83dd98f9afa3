package utils

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"go.viam.com/spatialaccel/logging"
)

// SlowLogger starts a goroutine that logs msg every few seconds until the returned function is called or
// the context is done. Long builds use it to show they are still making progress.
func SlowLogger(ctx context.Context, msg, fieldName string, fieldVal interface{}, logger logging.Logger) func() {
	return slowLoggerWithClock(ctx, clock.New(), msg, fieldName, fieldVal, logger)
}

func slowLoggerWithClock(
	ctx context.Context,
	clk clock.Clock,
	msg, fieldName string,
	fieldVal interface{},
	logger logging.Logger,
) func() {
	slowTicker := clk.Ticker(2 * time.Second)
	firstTick := true

	ctxWithCancel, cancel := context.WithCancel(ctx)
	startTime := clk.Now()
	go func() {
		for {
			select {
			case <-slowTicker.C:
				elapsed := clk.Since(startTime).Round(time.Second).String()
				logger.Infow(msg, fieldName, fieldVal, "time_elapsed", elapsed)
				if firstTick {
					slowTicker.Reset(3 * time.Second)
					firstTick = false
				} else {
					slowTicker.Reset(5 * time.Second)
				}
			case <-ctxWithCancel.Done():
				return
			}
		}
	}()
	return func() { slowTicker.Stop(); cancel() }
}
