package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "OCR_TIMEOUT", "SUMMARIZER_TIMEOUT", "UPLOAD_MAX_BYTES", "MATCH_TIE_BREAK", "DATABASE_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.OCRTimeout)
	assert.Equal(t, 30*time.Second, cfg.SummarizerTimeout)
	assert.Equal(t, int64(5*1024*1024), cfg.UploadMaxBytes)
	assert.Equal(t, "first", cfg.MatchTieBreak)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OCR_TIMEOUT", "5s")
	t.Setenv("UPLOAD_MAX_BYTES", "1024")
	t.Setenv("SCAN_RATE_BURST", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.OCRTimeout)
	assert.Equal(t, int64(1024), cfg.UploadMaxBytes)
	assert.Equal(t, 5, cfg.ScanRateBurst)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.DSN())
}

func TestS3RegionFallsBackToAWSRegion(t *testing.T) {
	cfg := &Config{AWSRegion: "ap-south-1"}
	assert.Equal(t, "ap-south-1", cfg.S3RegionOrDefault())

	cfg.S3Region = "eu-west-1"
	assert.Equal(t, "eu-west-1", cfg.S3RegionOrDefault())
}
