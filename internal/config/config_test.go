package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"APP_ENV":              "development",
		"APP_URL":              "http://localhost:8090/",
		"DB_CONNECTION":        "mongodb://localhost:27017",
		"DB_NAME":              "reelhub",
		"JWT_SECRET":           "0123456789abcdef0123456789abcdef",
		"GITHUB_CLIENT_ID":     "gh-id",
		"GITHUB_CLIENT_SECRET": "gh-secret",
		"IMAGEKIT_PRIVATE_KEY": "private_key",
		"IMAGEKIT_PUBLIC_KEY":  "public_key",
	}
}

func getenvFrom(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(getenvFrom(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "Reelhub", cfg.AppName)
	assert.Equal(t, "http://localhost:8090", cfg.AppURL)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.ImageKitUploadExpiry)
	assert.Equal(t, 10, cfg.AuthRateLimit)
	assert.Equal(t, time.Minute, cfg.AuthRateWindow)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.TrustProxy)
	assert.False(t, cfg.GoogleEnabled())
	assert.False(t, cfg.S3Enabled())
}

func TestParse_MissingRequired(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "APP_URL", "DB_CONNECTION", "JWT_SECRET",
		"GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET",
		"IMAGEKIT_PRIVATE_KEY", "IMAGEKIT_PUBLIC_KEY",
	} {
		t.Run(key, func(t *testing.T) {
			env := baseEnv()
			delete(env, key)

			_, err := Parse(getenvFrom(env))
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), key+" is required")
		})
	}
}

func TestParse_ReportsAllProblems(t *testing.T) {
	_, err := Parse(getenvFrom(map[string]string{}))
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "APP_ENV is required")
	assert.Contains(t, err.Error(), "IMAGEKIT_PRIVATE_KEY is required")
	assert.Contains(t, err.Error(), "DB_NAME is required for the mongo driver")
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(env map[string]string)
		wantErr string
	}{
		{
			name:    "short jwt secret",
			mutate:  func(env map[string]string) { env["JWT_SECRET"] = "short" },
			wantErr: "JWT_SECRET must be at least 32 characters",
		},
		{
			name:    "unknown driver",
			mutate:  func(env map[string]string) { env["DB_DRIVER"] = "cassandra" },
			wantErr: `DB_DRIVER "cassandra" is not supported`,
		},
		{
			name:    "google half configured",
			mutate:  func(env map[string]string) { env["GOOGLE_CLIENT_ID"] = "id" },
			wantErr: "GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together",
		},
		{
			name:    "s3 without credentials",
			mutate:  func(env map[string]string) { env["S3_BUCKET"] = "videos" },
			wantErr: "S3_ACCESS_KEY and S3_SECRET_KEY are required",
		},
		{
			name:    "bad duration",
			mutate:  func(env map[string]string) { env["IMAGEKIT_UPLOAD_EXPIRY"] = "soon" },
			wantErr: "IMAGEKIT_UPLOAD_EXPIRY must be a positive duration",
		},
		{
			name:    "bad rate limit",
			mutate:  func(env map[string]string) { env["AUTH_RATE_LIMIT"] = "-3" },
			wantErr: "AUTH_RATE_LIMIT must be a positive integer",
		},
		{
			name:    "bad trust proxy",
			mutate:  func(env map[string]string) { env["TRUST_PROXY"] = "sometimes" },
			wantErr: "TRUST_PROXY must be a boolean",
		},
		{
			name: "production without resend",
			mutate: func(env map[string]string) {
				env["APP_ENV"] = "production"
			},
			wantErr: "RESEND_API_KEY is required in production",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)

			_, err := Parse(getenvFrom(env))
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_SQLDriverDoesNotNeedDBName(t *testing.T) {
	env := baseEnv()
	env["DB_DRIVER"] = DriverSQLite
	env["DB_CONNECTION"] = "./data/reelhub.db"
	delete(env, "DB_NAME")

	cfg, err := Parse(getenvFrom(env))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
}

func TestParse_OptionalProviders(t *testing.T) {
	env := baseEnv()
	env["GOOGLE_CLIENT_ID"] = "g-id"
	env["GOOGLE_CLIENT_SECRET"] = "g-secret"
	env["S3_BUCKET"] = "videos"
	env["S3_ACCESS_KEY"] = "minio"
	env["S3_SECRET_KEY"] = "minio123"

	cfg, err := Parse(getenvFrom(env))
	require.NoError(t, err)
	assert.True(t, cfg.GoogleEnabled())
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, 15*time.Minute, cfg.S3PresignExpiry)
}
