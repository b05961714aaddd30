package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/zhenwei/fundlens/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name: "debug level",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "debug",
				LogFormat: "json",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "info level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "info",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "warn level",
			cfg: &config.Config{
				Env:       "staging",
				LogLevel:  "warn",
				LogFormat: "json",
			},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name: "unknown level defaults to info",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "whatever",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg)
			if logger == nil {
				t.Fatal("Expected logger to be created")
			}

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("Expected global level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestWithField(t *testing.T) {
	cfg := &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"}
	logger := New(cfg)

	derived := logger.WithField("fund_code", "161725")
	if derived == nil {
		t.Fatal("Expected derived logger")
	}
	if derived == logger {
		t.Error("WithField should return a new logger instance")
	}
}

func TestWithFields(t *testing.T) {
	cfg := &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"}
	logger := New(cfg)

	derived := logger.WithFields(map[string]interface{}{
		"fund_code": "161725",
		"top_n":     10,
	})
	if derived == nil {
		t.Fatal("Expected derived logger")
	}
}

func TestConsoleFormat(t *testing.T) {
	cfg := &config.Config{Env: "development", LogLevel: "debug", LogFormat: "console"}
	logger := New(cfg)
	if logger == nil {
		t.Fatal("Expected logger to be created with console format")
	}
}
