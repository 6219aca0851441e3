package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ryokan-ops/stayboard/internal/config"
	kafkax "github.com/ryokan-ops/stayboard/internal/kafka"
	"github.com/ryokan-ops/stayboard/internal/logger"
	"github.com/ryokan-ops/stayboard/internal/mailer"
	mailerService "github.com/ryokan-ops/stayboard/internal/service/mailer"
	workerService "github.com/ryokan-ops/stayboard/internal/service/worker"
	"github.com/ryokan-ops/stayboard/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env)
	log.Info("briefing worker starting")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mailerSender := &mailer.SMTPSender{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}
	mailerSvc := mailerService.NewMailerService(log, mailerSender)
	deliverSvc := workerService.NewDeliverService(log, mailerSvc, cfg.BriefingRecipient)

	consumer := kafkax.NewConsumer([]string{cfg.KafkaBrokers}, "stayboard-briefing-worker", kafkax.TopicBriefings)
	defer consumer.Close()
	dlq := kafkax.NewProducer([]string{cfg.KafkaBrokers}, kafkax.TopicBriefingsDLQ)
	defer dlq.Close()

	d := worker.NewDispatcher(log, deliverSvc, consumer, dlq, cfg.MaxWorkerRoutines)
	_ = d.Run(ctx)

	<-ctx.Done()
	log.Info("briefing worker stopped")
}
