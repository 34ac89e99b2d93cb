package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avdeyev/bookhub/config"
	"github.com/avdeyev/bookhub/internal/events"
	"github.com/avdeyev/bookhub/internal/handler"
	"github.com/avdeyev/bookhub/internal/repository"
	"github.com/avdeyev/bookhub/internal/server"
	"github.com/avdeyev/bookhub/internal/service"
	"github.com/avdeyev/bookhub/migrations"
	"github.com/avdeyev/bookhub/pkg/auth"
	"github.com/avdeyev/bookhub/pkg/kafka"
	"github.com/avdeyev/bookhub/pkg/logger"
	"github.com/avdeyev/bookhub/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "bookhub")
	auth.SetKey(cfg.Auth.JWTKey)

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo init %v", err)
	}

	var producer *events.Producer
	if len(cfg.Kafka.Addrs) > 0 {
		p, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer %v", err)
		}
		producer = events.NewProducer(p, cfg.Kafka.Topic, log)
	}

	bookSvc := service.NewBookService(repo, log)
	borrowSvc := service.NewBorrowService(repo, producer, log)
	authSvc := service.NewAuthService(repo, cfg.Auth.AdminUsername, log)
	h := handler.New(bookSvc, borrowSvc, authSvc, cfg.Cloudinary, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if err := producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
