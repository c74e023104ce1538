/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/welcomedesk/userservice/internal/mailer"
	"github.com/welcomedesk/userservice/internal/mq"
	"github.com/welcomedesk/userservice/internal/storage"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Renders queued welcome emails into the mail outbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := loadConfig()
		ctx := cmd.Context()

		queue, err := mq.Connect(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		defer queue.Close()

		outbox, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("open outbox: %w", err)
		}

		worker := mailer.NewWorker(queue, outbox, mailer.WorkerConfig{
			Channel:      cfg.MQ.WelcomeChannel,
			From:         cfg.Mail.From,
			Subject:      cfg.Mail.Subject,
			OutboxPrefix: cfg.Mail.OutboxPrefix,
			Logger:       logger,
		})

		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("welcome worker stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
