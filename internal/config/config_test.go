package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"SERVICE_NAME", "SERVER_PORT", "DB_DRIVER", "TOKEN_STORE", "ES_INDEX", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	assert.Equal(t, "noteet", cfg.ServiceName)
	assert.Equal(t, 8083, cfg.ServerPort)
	assert.Equal(t, ":8083", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, TokenStoreSQL, cfg.TokenStore)
	assert.Equal(t, "notes", cfg.ESIndex)
	assert.Nil(t, cfg.KafkaBrokers)
}

func TestFromEnv_ReadsValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ACCESS_TOKEN_SECRET", "a-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "r-secret")
	t.Setenv("KAFKA_BROKERS", "kafka:9092, kafka2:9092,,")

	cfg := FromEnv()
	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, []byte("a-secret"), cfg.AccessSecret)
	assert.Equal(t, []byte("r-secret"), cfg.RefreshSecret)
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, cfg.KafkaBrokers)
}

func TestEnvIntDefault_InvalidFallsBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	assert.Equal(t, 8083, EnvIntDefault("SERVER_PORT", 8083))
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := Config{
		DatabaseURL:   "postgres://localhost/noteet",
		AccessSecret:  []byte("a"),
		RefreshSecret: []byte("r"),
		TokenStore:    TokenStoreSQL,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "no database", mutate: func(c *Config) { c.DatabaseURL = "" }, want: "DATABASE_URL"},
		{name: "no access secret", mutate: func(c *Config) { c.AccessSecret = nil }, want: "ACCESS_TOKEN_SECRET"},
		{name: "no refresh secret", mutate: func(c *Config) { c.RefreshSecret = nil }, want: "REFRESH_TOKEN_SECRET"},
		{name: "redis without url", mutate: func(c *Config) { c.TokenStore = TokenStoreRedis }, want: "REDIS_URL"},
		{name: "unknown store", mutate: func(c *Config) { c.TokenStore = "memcached" }, want: "TOKEN_STORE"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
