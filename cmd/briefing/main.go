package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ryokan-ops/stayboard/internal/config"
	"github.com/ryokan-ops/stayboard/internal/engine"
	kafkax "github.com/ryokan-ops/stayboard/internal/kafka"
	"github.com/ryokan-ops/stayboard/internal/llm"
	"github.com/ryokan-ops/stayboard/internal/logger"
	"github.com/ryokan-ops/stayboard/internal/quality"
	briefingService "github.com/ryokan-ops/stayboard/internal/service/briefing"
	"github.com/ryokan-ops/stayboard/internal/store"
	"github.com/ryokan-ops/stayboard/internal/store/properties"
	"github.com/ryokan-ops/stayboard/internal/store/reservations"
)

func main() {
	once := flag.Bool("once", false, "generate one briefing now and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := store.NewDB(ctx, cfg.PostgresURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	reservationsRepo := reservations.NewReservationsRepository(db, log)
	catalog, err := properties.NewPropertiesRepository(db, log).Catalog(ctx)
	if err != nil {
		log.Fatal("catalog load", zap.Error(err))
	}

	auditor := quality.NewAuditor(log, []string{cfg.KafkaBrokers})
	defer auditor.Close()

	eng := engine.New(reservationsRepo, catalog, log)
	eng.OnWarning(auditor.Handle)

	svc := briefingService.NewService(log, eng, llm.New(cfg.OpenAIAPIKey))
	producer := kafkax.NewProducer([]string{cfg.KafkaBrokers}, kafkax.TopicBriefings)
	defer producer.Close()

	run := func() {
		now := time.Now().UTC()
		text, err := svc.Generate(ctx, now, signalsFromEnv())
		if err != nil {
			log.Error("briefing generation failed", zap.Error(err))
			return
		}
		e := kafkax.BriefingEvent{
			Type:      "daily_briefing",
			Date:      now.Format("2006-01-02"),
			Recipient: cfg.BriefingRecipient,
			Body:      text,
		}
		b, err := json.Marshal(e)
		if err != nil {
			log.Error("briefing marshal failed", zap.Error(err))
			return
		}
		if err := producer.Publish(ctx, []byte(e.Date), b); err != nil {
			log.Error("briefing publish failed", zap.Error(err))
			return
		}
		log.Info("briefing published", zap.String("date", e.Date))
	}

	if *once {
		run()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.BriefingCron, run); err != nil {
		log.Fatal("invalid briefing schedule", zap.String("cron", cfg.BriefingCron), zap.Error(err))
	}
	c.Start()
	log.Info("briefing scheduler started", zap.String("cron", cfg.BriefingCron))

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	log.Info("briefing scheduler stopped")
}

// signalsFromEnv reads the optional external context lines operators can
// inject per run.
func signalsFromEnv() briefingService.Signals {
	return briefingService.Signals{
		ExchangeRate: os.Getenv("BRIEFING_FX"),
		Weather:      os.Getenv("BRIEFING_WEATHER"),
		Events:       os.Getenv("BRIEFING_EVENTS"),
		News:         os.Getenv("BRIEFING_NEWS"),
	}
}
