package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EMAIL_USER", "EMAIL_PASS", "ADMIN_EMAIL", "SMTP_HOST", "SMTP_PORT", "PORT",
		"CORS_ORIGIN", "LOG_LEVEL", "PDF_ATTACHMENT", "CHROME_PATH",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.PDF.Enabled)
	assert.ElementsMatch(t, []string{"EMAIL_USER", "EMAIL_PASS"}, cfg.MissingCredentials())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "codice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8081"
mail:
  host: smtp.example.com
  user: yaml@example.com
  timeout: 5s
pdf:
  enabled: true
`), 0o644))

	t.Setenv("EMAIL_USER", "env@example.com")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, "env@example.com", cfg.Mail.User)
	assert.Equal(t, "secret", cfg.Mail.Password)
	assert.Equal(t, 5*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, "Auditoría CÓDICE", cfg.Mail.ClientFromName, "unset keys keep defaults")
	assert.True(t, cfg.PDF.Enabled)
	assert.Empty(t, cfg.MissingCredentials())
}

func TestLoadDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("EMAIL_PASS=from-file\nADMIN_EMAIL=ventas@codice.test\n"), 0o644))
	t.Setenv("EMAIL_PASS", "from-env")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Mail.Password)
	assert.Equal(t, "ventas@codice.test", cfg.Mail.AdminRecipient)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoadMissingConfigFileFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.Error(t, err)
}

func TestEnvOverridesIgnoreGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("PDF_ATTACHMENT", "maybe")

	cfg := Default()
	cfg.applyEnvOverrides()
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.PDF.Enabled)

	t.Setenv("SMTP_PORT", "465")
	t.Setenv("PDF_ATTACHMENT", "true")
	cfg.applyEnvOverrides()
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.True(t, cfg.PDF.Enabled)
}
