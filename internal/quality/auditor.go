package quality

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/engine"
	kafkax "github.com/ryokan-ops/stayboard/internal/kafka"
	"github.com/ryokan-ops/stayboard/internal/metrics"
)

// Auditor records every data-quality warning the engine raises: a metric, a
// structured log line, and an event on the audit topic.
type Auditor struct {
	log      *zap.Logger
	producer *kafkax.Producer
}

func NewAuditor(log *zap.Logger, brokers []string) *Auditor {
	return &Auditor{
		log:      log,
		producer: kafkax.NewProducer(brokers, kafkax.TopicDataQuality),
	}
}

// Handle is suitable as an engine warning callback.
func (a *Auditor) Handle(w engine.Warning) {
	metrics.DataQualityWarningsTotal.Inc()
	a.log.Warn("data quality warning",
		zap.String("reservation_id", w.ReservationID),
		zap.String("reason", w.Reason))

	e := kafkax.QualityEvent{
		Type:          "data_quality",
		ReservationID: w.ReservationID,
		Reason:        w.Reason,
		At:            time.Now().UTC(),
	}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.producer.Publish(ctx, []byte(w.ReservationID), b); err != nil {
		a.log.Warn("quality audit publish failed", zap.Error(err))
	}
}

func (a *Auditor) Close() error { return a.producer.Close() }
