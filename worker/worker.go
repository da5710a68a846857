// Package worker runs aggregation cycles off NATS messages and on a
// periodic schedule.
package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"news-aggregator/model"
	"news-aggregator/service"
)

const (
	subjectAggregate = "news.aggregate"
	subjectResult    = "news.aggregate.result"
)

// AggregateResult is the message published after each run.
type AggregateResult struct {
	RequestID string                        `json:"request_id,omitempty"`
	Results   map[string]model.SourceResult `json:"results"`
	Error     string                        `json:"error,omitempty"`
	RanAt     time.Time                     `json:"ran_at"`
}

type aggregateRequest struct {
	RequestID string                   `json:"request_id,omitempty"`
	Options   service.AggregateOptions `json:"options"`
}

// Worker subscribes to aggregation requests and optionally triggers runs
// on a fixed interval.
type Worker struct {
	nc         *nats.Conn
	aggregator *service.Aggregator
	interval   time.Duration
	runTimeout time.Duration
}

func NewWorker(nc *nats.Conn, aggregator *service.Aggregator, interval time.Duration) *Worker {
	return &Worker{
		nc:         nc,
		aggregator: aggregator,
		interval:   interval,
		runTimeout: 5 * time.Minute,
	}
}

// Start subscribes and blocks until the context is cancelled. A zero
// interval disables the scheduler; runs then happen only on request.
func (w *Worker) Start(ctx context.Context) error {
	sub, err := w.nc.Subscribe(subjectAggregate, w.handleRequest)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	log.Printf("[INFO] Aggregation worker subscribed to %s", subjectAggregate)

	if w.interval > 0 {
		go w.runScheduler(ctx)
	}

	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) handleRequest(msg *nats.Msg) {
	var req aggregateRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			log.Printf("[ERROR] Invalid aggregation request: %v", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.runTimeout)
	defer cancel()

	w.run(ctx, req.RequestID, req.Options)
}

func (w *Worker) runScheduler(ctx context.Context) {
	log.Printf("[INFO] Scheduling aggregation every %v", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, w.runTimeout)
			w.run(runCtx, "", service.AggregateOptions{})
			cancel()
		}
	}
}

func (w *Worker) run(ctx context.Context, requestID string, opts service.AggregateOptions) {
	result := AggregateResult{RequestID: requestID, RanAt: time.Now()}

	results, err := w.aggregator.AggregateNews(ctx, opts)
	if err != nil {
		log.Printf("[ERROR] Aggregation run failed: %v", err)
		result.Error = err.Error()
	} else {
		result.Results = results
	}

	w.publishResult(result)
}

func (w *Worker) publishResult(result AggregateResult) {
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("[ERROR] Failed to marshal aggregation result: %v", err)
		return
	}
	if err := w.nc.Publish(subjectResult, data); err != nil {
		log.Printf("[WARN] Failed to publish aggregation result: %v", err)
	}
}
