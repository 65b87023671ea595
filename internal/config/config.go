// Package config loads the gateway configuration from a file and
// BILLERGW_ environment variables via viper.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	SQLitePath string
}

type BreakerConfig struct {
	FailureThreshold int
	Cooldown         time.Duration
	ProbeCount       int
	SuccessesToClose int
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

type BillerEndpoints struct {
	Rocketgate string
	Netbilling string
	Pumapay    string
	Qysso      string
	Epoch      string
	Legacy     string
}

type Config struct {
	HTTP        HTTPConfig
	Storage     StorageConfig
	Breaker     BreakerConfig
	Outbox      OutboxConfig
	Billers     BillerEndpoints
	CallTimeout time.Duration
}

// SetDefaults registers every key so viper can resolve it from the
// environment even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("storage.sqlite_path", "billergw.db")
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.cooldown", "30s")
	v.SetDefault("breaker.probe_count", 3)
	v.SetDefault("breaker.successes_to_close", 2)
	v.SetDefault("outbox.poll_interval", "5s")
	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("billers.call_timeout", "30s")
	v.SetDefault("billers.rocketgate.endpoint", "")
	v.SetDefault("billers.netbilling.endpoint", "")
	v.SetDefault("billers.pumapay.endpoint", "")
	v.SetDefault("billers.qysso.endpoint", "")
	v.SetDefault("billers.epoch.endpoint", "")
	v.SetDefault("billers.legacy.endpoint", "")
}

// Load reads the config file (when cfgFile is non-empty) and resolves the
// full configuration. Environment variables use the BILLERGW_ prefix with
// dots replaced by underscores, e.g. BILLERGW_HTTP_ADDR.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("BILLERGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	return Config{
		HTTP: HTTPConfig{
			Addr:            v.GetString("http.addr"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Storage: StorageConfig{
			SQLitePath: v.GetString("storage.sqlite_path"),
		},
		Breaker: BreakerConfig{
			FailureThreshold: v.GetInt("breaker.failure_threshold"),
			Cooldown:         v.GetDuration("breaker.cooldown"),
			ProbeCount:       v.GetInt("breaker.probe_count"),
			SuccessesToClose: v.GetInt("breaker.successes_to_close"),
		},
		Outbox: OutboxConfig{
			PollInterval: v.GetDuration("outbox.poll_interval"),
			BatchSize:    v.GetInt("outbox.batch_size"),
		},
		Billers: BillerEndpoints{
			Rocketgate: v.GetString("billers.rocketgate.endpoint"),
			Netbilling: v.GetString("billers.netbilling.endpoint"),
			Pumapay:    v.GetString("billers.pumapay.endpoint"),
			Qysso:      v.GetString("billers.qysso.endpoint"),
			Epoch:      v.GetString("billers.epoch.endpoint"),
			Legacy:     v.GetString("billers.legacy.endpoint"),
		},
		CallTimeout: v.GetDuration("billers.call_timeout"),
	}, nil
}
