// Command tack-worker drains the email queue and delivers over SMTP.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tackboard/tack/internal/config"
	"github.com/tackboard/tack/internal/mail"
)

const dequeueTimeout = 5 * time.Second

func main() {
	setupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	queue, err := mail.NewQueue(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer queue.Close()

	var sender *mail.Sender
	if cfg.SMTP.Enabled() {
		sender = mail.NewSender(mail.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			User:      cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromName:  cfg.AppName,
			FromEmail: cfg.SMTP.From,
		})
		log.Info().Str("host", cfg.SMTP.Host).Msg("worker started")
	} else {
		log.Warn().Msg("SMTP not configured; queued emails will be logged and dropped")
	}

	for {
		job, err := queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("shutting down")
				return
			}
			if errors.Is(err, mail.ErrEmpty) {
				continue
			}
			log.Error().Err(err).Msg("dequeue failed")
			time.Sleep(time.Second)
			continue
		}

		if sender == nil {
			log.Info().Str("to", job.To).Str("subject", job.Subject).Msg("dropping email, SMTP disabled")
			continue
		}

		if err := sender.SendWithRetry(job, time.Sleep); err != nil {
			log.Error().Err(err).Str("to", job.To).Msg("giving up on email")
		}
	}
}

func setupLogging() {
	level, err := zerolog.ParseLevel(os.Getenv("TACK_LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("TACK_LOG_FORMAT") == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
