package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/welcomedesk/userservice/config"
	"github.com/welcomedesk/userservice/internal/db"
	"github.com/welcomedesk/userservice/internal/mailer"
	"github.com/welcomedesk/userservice/internal/mq"
	"github.com/welcomedesk/userservice/internal/services"
	"github.com/welcomedesk/userservice/internal/store"
)

// App holds the wired collaborators shared by the HTTP server and the CLI.
type App struct {
	DB    *sql.DB
	Queue *mq.MQ
	Users *services.UserService
}

// Bootstrap opens the database and the broker and builds the user service.
func Bootstrap(ctx context.Context, cfg config.Config) (*App, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queue, err := mq.Connect(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn, cfg.Database.Driver)
	sender := mailer.NewQueueSender(queue, cfg.MQ.WelcomeChannel)

	return &App{
		DB:    dbConn,
		Queue: queue,
		Users: services.NewUserService(userRepo, sender),
	}, nil
}

// Close releases the broker and database connections.
func (a *App) Close() error {
	var errs []error
	if a.Queue != nil {
		errs = append(errs, a.Queue.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
