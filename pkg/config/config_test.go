package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "quoteflow", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 168, cfg.JWT.ExpirationHours)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxImageBytes)
	assert.Equal(t, time.Hour, cfg.DB.ConnMaxLifetime)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DB_LOG_LEVEL", "silent")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, logger.Silent, cfg.DB.GormLogLevel())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "service_name: quoteflow-test\nserver:\n  port: \"7070\"\nstorage:\n  driver: s3\n  s3_bucket: images\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(ConfigPathEnv, path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "quoteflow-test", cfg.ServiceName)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "images", cfg.Storage.S3Bucket)
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("STORAGE_DRIVER", "ftp")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "q", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=q sslmode=disable", c.GetDSN())
}
