// Package config loads service settings from defaults, an optional YAML
// file, a .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mail      MailConfig      `yaml:"mail"`
	PDF       PDFConfig       `yaml:"pdf"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"cors_origin"`
	BodyLimit  int64  `yaml:"body_limit"`
}

type MailConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	AdminRecipient string        `yaml:"admin_recipient"`
	ClientFromName string        `yaml:"client_from_name"`
	AdminFromName  string        `yaml:"admin_from_name"`
	Timeout        time.Duration `yaml:"timeout"`
}

type PDFConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ChromePath string `yaml:"chrome_path"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":3000",
			CORSOrigin: "*",
			BodyLimit:  1 << 20,
		},
		Mail: MailConfig{
			Host:           "smtp.gmail.com",
			Port:           587,
			ClientFromName: "Auditoría CÓDICE",
			AdminFromName:  "Notificación CÓDICE Server",
			Timeout:        30 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "codice-audit",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. path may be empty; envFile is read when it
// exists and never overrides variables already set in the environment.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EMAIL_USER"); v != "" {
		c.Mail.User = v
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		c.Mail.AdminRecipient = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.Mail.Host = v
	}
	if v, ok := envInt("SMTP_PORT"); ok {
		c.Mail.Port = v
	}
	if v, ok := envInt("PORT"); ok {
		c.Server.Addr = ":" + strconv.Itoa(v)
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.Server.CORSOrigin = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("PDF_ATTACHMENT"))); err == nil {
		c.PDF.Enabled = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.PDF.ChromePath = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// MissingCredentials lists the mail settings that are empty. They are not
// required at startup; sends fail until they are provided.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if strings.TrimSpace(c.Mail.User) == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if strings.TrimSpace(c.Mail.Password) == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	return missing
}
