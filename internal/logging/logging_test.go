package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jaskmask.log")
	log, closer, err := New(path, "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug().Str("form", "contact").Msg("submitted")
	log.Trace().Msg("hidden")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"form":"contact"`) || !strings.Contains(out, `"message":"submitted"`) {
		t.Fatalf("unexpected log output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("trace line written at debug level: %q", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New("", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewWithoutPathDiscards(t *testing.T) {
	log, closer, err := New("", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info().Msg("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
