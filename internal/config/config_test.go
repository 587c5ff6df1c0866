package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "DB_DSN", "DB_HOST", "DB_PORT", "DB_NAME", "JWT_TTL_HOURS", "REDIS_ADDR", "CACHE_TTL_SECONDS", "IS_PROD"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProd)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("IS_PROD", "true")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.IsProd)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "shop"}
	assert.Equal(t, "u:p@tcp(h:3306)/shop?parseTime=true", cfg.DSN())

	cfg.DBDriver = "postgres"
	cfg.DBPort = "5432"
	assert.Equal(t, "host=h user=u password=p dbname=shop port=5432 sslmode=disable", cfg.DSN())

	cfg.DBDriver = "sqlite"
	assert.Equal(t, "shop.db", cfg.DSN())

	cfg.DBDSN = "file::memory:"
	assert.Equal(t, "file::memory:", cfg.DSN())
}
