package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "TACK_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "TACK_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "TACK_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
		{name: "preserves whitespace", key: "TACK_TEST_GETENV_WS", setVal: strPtr("  spaced  "), fallback: "x", want: "  spaced  "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "TACK_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "TACK_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "parses negative int", key: "TACK_TEST_INT_NEG", setVal: strPtr("-1"), fallback: 0, want: -1},
		{name: "parses zero", key: "TACK_TEST_INT_ZERO", setVal: strPtr("0"), fallback: 99, want: 0},
		{name: "returns fallback for empty string", key: "TACK_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "TACK_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "TACK_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "TACK_TEST_DUR_UNSET", setVal: nil, fallback: 5 * time.Second, want: 5 * time.Second},
		{name: "parses seconds", key: "TACK_TEST_DUR_SEC", setVal: strPtr("30s"), fallback: 0, want: 30 * time.Second},
		{name: "parses minutes", key: "TACK_TEST_DUR_MIN", setVal: strPtr("15m"), fallback: 0, want: 15 * time.Minute},
		{name: "parses composite", key: "TACK_TEST_DUR_COMP", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "errors on invalid", key: "TACK_TEST_DUR_INV", setVal: strPtr("notaduration"), fallback: 0, wantErr: true},
		{name: "errors on bare number", key: "TACK_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() error cases
// ---------------------------------------------------------------------------

func TestLoad_MissingJWTSecret(t *testing.T) {
	// All defaults apply; JWT secret is empty => must fail.
	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "TACK_JWT_SECRET")
}

func TestLoad_InvalidEnvVars(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		errMsg string
	}{
		{name: "DB_PORT not a number", envKey: "TACK_DB_PORT", envVal: "abc", errMsg: "TACK_DB_PORT"},
		{name: "DB_PORT zero", envKey: "TACK_DB_PORT", envVal: "0", errMsg: "TACK_DB_PORT"},
		{name: "DB_PORT too high", envKey: "TACK_DB_PORT", envVal: "65536", errMsg: "TACK_DB_PORT"},

		{name: "DB_MAX_CONNS zero", envKey: "TACK_DB_MAX_CONNS", envVal: "0", errMsg: "TACK_DB_MAX_CONNS"},
		{name: "DB_MAX_CONNS not a number", envKey: "TACK_DB_MAX_CONNS", envVal: "many", errMsg: "TACK_DB_MAX_CONNS"},

		{name: "JWT_ACCESS_TTL invalid", envKey: "TACK_JWT_ACCESS_TTL", envVal: "badval", errMsg: "TACK_JWT_ACCESS_TTL"},
		{name: "JWT_REFRESH_TTL invalid", envKey: "TACK_JWT_REFRESH_TTL", envVal: "badval", errMsg: "TACK_JWT_REFRESH_TTL"},
		{name: "JWT_ACCESS_TTL zero", envKey: "TACK_JWT_ACCESS_TTL", envVal: "0s", errMsg: "TACK_JWT_ACCESS_TTL"},
		{name: "JWT_REFRESH_TTL negative", envKey: "TACK_JWT_REFRESH_TTL", envVal: "-1h", errMsg: "TACK_JWT_REFRESH_TTL"},

		{name: "SERVER_READ_TIMEOUT invalid", envKey: "TACK_SERVER_READ_TIMEOUT", envVal: "notduration", errMsg: "TACK_SERVER_READ_TIMEOUT"},
		{name: "SERVER_WRITE_TIMEOUT zero", envKey: "TACK_SERVER_WRITE_TIMEOUT", envVal: "0s", errMsg: "TACK_SERVER_WRITE_TIMEOUT"},

		{name: "REDIS_DB not a number", envKey: "TACK_REDIS_DB", envVal: "abc", errMsg: "TACK_REDIS_DB"},

		{name: "SMTP_PORT zero", envKey: "TACK_SMTP_PORT", envVal: "0", errMsg: "TACK_SMTP_PORT"},
		{name: "UPLOAD_MAX_SIZE zero", envKey: "TACK_UPLOAD_MAX_SIZE", envVal: "0", errMsg: "TACK_UPLOAD_MAX_SIZE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Always set JWT secret so failures are from the var under test.
			t.Setenv("TACK_JWT_SECRET", "test-secret-for-error-cases-32ch!")
			t.Setenv(tc.envKey, tc.envVal)

			cfg, err := Load()
			require.Error(t, err, "expected error for %s=%q", tc.envKey, tc.envVal)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// Load() happy paths
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	// Only the required JWT secret is set; everything else uses defaults.
	t.Setenv("TACK_JWT_SECRET", "my-dev-secret-at-least-32-chars!!")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Database defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "tack", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "tack_dev", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxConns)

	// Redis defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Empty(t, cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)

	// JWT defaults.
	assert.Equal(t, "my-dev-secret-at-least-32-chars!!", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)

	// Server defaults.
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	// SMTP defaults: disabled without a host.
	assert.Empty(t, cfg.SMTP.Host)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "noreply@tackboard.dev", cfg.SMTP.From)

	// OAuth defaults: providers disabled.
	assert.Empty(t, cfg.OAuth.GoogleClientID)
	assert.Empty(t, cfg.OAuth.GitHubClientID)

	// Uploads defaults.
	assert.Equal(t, "./uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxSizeBytes)

	assert.Equal(t, "Tack", cfg.AppName)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
}

func TestLoad_AllCustomValues(t *testing.T) {
	envs := map[string]string{
		// Database
		"TACK_DB_HOST":      "db.prod.internal",
		"TACK_DB_PORT":      "5433",
		"TACK_DB_USER":      "prod_user",
		"TACK_DB_PASSWORD":  "s3cret!",
		"TACK_DB_NAME":      "tack_prod",
		"TACK_DB_SSLMODE":   "require",
		"TACK_DB_MAX_CONNS": "50",
		// Redis
		"TACK_REDIS_ADDR":     "redis.prod:6380",
		"TACK_REDIS_PASSWORD": "redis-pass",
		"TACK_REDIS_DB":       "3",
		// JWT
		"TACK_JWT_SECRET":      "prod-jwt-secret-256-bits-long!!!",
		"TACK_JWT_ACCESS_TTL":  "30m",
		"TACK_JWT_REFRESH_TTL": "72h",
		// Server
		"TACK_SERVER_ADDR":          ":9090",
		"TACK_SERVER_READ_TIMEOUT":  "5s",
		"TACK_SERVER_WRITE_TIMEOUT": "15s",
		// SMTP
		"TACK_SMTP_HOST":     "smtp.prod.internal",
		"TACK_SMTP_PORT":     "465",
		"TACK_SMTP_USERNAME": "mailer",
		"TACK_SMTP_PASSWORD": "mail-pass",
		"TACK_SMTP_FROM":     "boards@example.com",
		// OAuth
		"TACK_OAUTH_GOOGLE_CLIENT_ID":     "g-id",
		"TACK_OAUTH_GOOGLE_CLIENT_SECRET": "g-sec",
		"TACK_OAUTH_GITHUB_CLIENT_ID":     "gh-id",
		"TACK_OAUTH_GITHUB_CLIENT_SECRET": "gh-sec",
		"TACK_OAUTH_REDIRECT_BASE_URL":    "https://api.example.com",
		// Uploads
		"TACK_UPLOAD_DIR":      "/var/lib/tack/uploads",
		"TACK_UPLOAD_MAX_SIZE": "5242880",
		// Misc
		"TACK_APP_NAME":     "Tack Boards",
		"TACK_FRONTEND_URL": "https://boards.example.com",
	}

	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "db.prod.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "prod_user", cfg.Database.User)
	assert.Equal(t, "s3cret!", cfg.Database.Password)
	assert.Equal(t, "tack_prod", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxConns)

	assert.Equal(t, "redis.prod:6380", cfg.Redis.Addr)
	assert.Equal(t, "redis-pass", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)

	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 72*time.Hour, cfg.JWT.RefreshTTL)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)

	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "smtp.prod.internal:465", cfg.SMTP.Addr())
	assert.Equal(t, "mailer", cfg.SMTP.Username)
	assert.Equal(t, "boards@example.com", cfg.SMTP.From)

	assert.Equal(t, "g-id", cfg.OAuth.GoogleClientID)
	assert.Equal(t, "gh-id", cfg.OAuth.GitHubClientID)
	assert.Equal(t, "https://api.example.com", cfg.OAuth.RedirectBaseURL)

	assert.Equal(t, "/var/lib/tack/uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(5242880), cfg.Uploads.MaxSizeBytes)

	assert.Equal(t, "Tack Boards", cfg.AppName)
	assert.Equal(t, "https://boards.example.com", cfg.FrontendURL)
}

// ---------------------------------------------------------------------------
// DSN() output format
// ---------------------------------------------------------------------------

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "default dev values",
			cfg: DatabaseConfig{
				Host: "localhost", Port: 5432, User: "tack",
				Password: "", DBName: "tack_dev", SSLMode: "disable",
			},
			want: "host=localhost port=5432 user=tack password= dbname=tack_dev sslmode=disable",
		},
		{
			name: "production values",
			cfg: DatabaseConfig{
				Host: "db.prod", Port: 5433, User: "admin",
				Password: "p@ss!", DBName: "tack_prod", SSLMode: "require",
			},
			want: "host=db.prod port=5433 user=admin password=p@ss! dbname=tack_prod sslmode=require",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cfg.DSN())
		})
	}
}

// ---------------------------------------------------------------------------
// validate() direct tests
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	// validBase returns a Config that passes validation.
	validBase := func() *Config {
		return &Config{
			Database: DatabaseConfig{Port: 5432, MaxConns: 25},
			JWT: JWTConfig{
				Secret:     "test-secret-that-is-at-least-32ch",
				AccessTTL:  15 * time.Minute,
				RefreshTTL: 7 * 24 * time.Hour,
			},
			Server: ServerConfig{
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			},
			SMTP:    SMTPConfig{Port: 587},
			Uploads: UploadsConfig{MaxSizeBytes: 1024},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validBase().validate())
	})

	t.Run("empty JWT secret fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = ""
		assert.ErrorContains(t, c.validate(), "TACK_JWT_SECRET")
	})

	t.Run("JWT secret too short fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = "only-31-characters-long-secret!"
		assert.ErrorContains(t, c.validate(), "TACK_JWT_SECRET")
	})

	t.Run("JWT secret exactly 32 chars passes", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.Secret = "exactly-32-characters-long-sec!!"
		assert.NoError(t, c.validate())
	})

	t.Run("port 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 0
		assert.ErrorContains(t, c.validate(), "TACK_DB_PORT")
	})

	t.Run("port 65535 passes", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.Port = 65535
		assert.NoError(t, c.validate())
	})

	t.Run("MaxConns 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Database.MaxConns = 0
		assert.ErrorContains(t, c.validate(), "TACK_DB_MAX_CONNS")
	})

	t.Run("AccessTTL 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.AccessTTL = 0
		assert.ErrorContains(t, c.validate(), "TACK_JWT_ACCESS_TTL")
	})

	t.Run("RefreshTTL negative fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.JWT.RefreshTTL = -time.Minute
		assert.ErrorContains(t, c.validate(), "TACK_JWT_REFRESH_TTL")
	})

	t.Run("ReadTimeout 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Server.ReadTimeout = 0
		assert.ErrorContains(t, c.validate(), "TACK_SERVER_READ_TIMEOUT")
	})

	t.Run("WriteTimeout 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Server.WriteTimeout = 0
		assert.ErrorContains(t, c.validate(), "TACK_SERVER_WRITE_TIMEOUT")
	})

	t.Run("SMTP port out of range fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.SMTP.Port = 70000
		assert.ErrorContains(t, c.validate(), "TACK_SMTP_PORT")
	})

	t.Run("upload max size 0 fails", func(t *testing.T) {
		t.Parallel()
		c := validBase()
		c.Uploads.MaxSizeBytes = 0
		assert.ErrorContains(t, c.validate(), "TACK_UPLOAD_MAX_SIZE")
	})
}

// ---------------------------------------------------------------------------
// Test helper
// ---------------------------------------------------------------------------

func strPtr(s string) *string {
	return &s
}
