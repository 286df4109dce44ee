package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	HTTPListenAddr string
	// MetricsListenAddr serves /metrics on a separate listener when set.
	MetricsListenAddr string
	LogLevel          string
	ServiceName       string

	RegistryBackend     string
	RegistryDatabaseURL string
	RegistryNamespace   string
	RegistrySeedFile    string

	CORSOrigins []string
	APIKey      string

	TLSCert     string
	TLSKey      string
	TLSClientCA string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPListenAddr:      getEnv("HTTP_LISTEN_ADDR", ":8088"),
		MetricsListenAddr:   getEnv("METRICS_LISTEN_ADDR", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		ServiceName:         getEnv("SERVICE_NAME", "governance-api"),
		RegistryBackend:     getEnv("REGISTRY_BACKEND", BackendPostgres),
		RegistryDatabaseURL: getEnv("REGISTRY_DATABASE_URL", ""),
		RegistryNamespace:   getEnv("REGISTRY_NAMESPACE", "governance_ds"),
		RegistrySeedFile:    getEnv("REGISTRY_SEED_FILE", ""),
		CORSOrigins:         splitList(getEnv("CORS_ORIGINS", "")),
		APIKey:              getEnv("API_KEY", ""),
		TLSCert:             getEnv("TLS_CERT_FILE", ""),
		TLSKey:              getEnv("TLS_KEY_FILE", ""),
		TLSClientCA:         getEnv("TLS_CLIENT_CA_FILE", ""),
	}

	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var missing []string
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if c.RegistryNamespace == "" {
		missing = append(missing, "REGISTRY_NAMESPACE")
	}

	switch c.RegistryBackend {
	case BackendPostgres:
		if c.RegistryDatabaseURL == "" {
			missing = append(missing, "REGISTRY_DATABASE_URL")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("REGISTRY_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.RegistryBackend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must both be set")
	}
	if c.TLSClientCA != "" && c.TLSCert == "" {
		return fmt.Errorf("TLS_CLIENT_CA_FILE requires TLS_CERT_FILE and TLS_KEY_FILE")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
