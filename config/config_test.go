package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg := LoadConfig()
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "rabbitmq", cfg.MQ.Backend)
	assert.Equal(t, "welcome-emails", cfg.MQ.WelcomeChannel)
	assert.True(t, cfg.MQ.RabbitMQ.QueueDurable)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, "welcome", cfg.Mail.OutboxPrefix)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/users.db")
	t.Setenv("DB_USE_SSL", "yes")
	t.Setenv("MQ_BACKEND", "pubsub")
	t.Setenv("PUBSUB_PROJECT_ID", "acme")
	t.Setenv("RABBITMQ_QUEUE_DURABLE", "false")
	t.Setenv("STORAGE_BACKEND", "gcs")
	t.Setenv("MAIL_FROM", "hello@acme.test")

	cfg := LoadConfig()
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/users.db", cfg.Database.Path)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, "pubsub", cfg.MQ.Backend)
	assert.Equal(t, "acme", cfg.MQ.PubSub.ProjectID)
	assert.False(t, cfg.MQ.RabbitMQ.QueueDurable)
	assert.Equal(t, "gcs", cfg.Storage.Backend)
	assert.Equal(t, "hello@acme.test", cfg.Mail.From)
}

func TestGetEnvBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.True(t, getEnvBool("SOME_FLAG", true))
	assert.False(t, getEnvBool("UNSET_FLAG_FOR_TEST", false))
}
