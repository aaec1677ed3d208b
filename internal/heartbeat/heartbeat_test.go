package heartbeat

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriterWritesAndRemoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.heartbeat")

	w := NewWriter(path)
	w.Start()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("heartbeat file not written: %v", err)
	}

	status, hb, err := Check(path, time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != StatusAlive {
		t.Errorf("status = %s, want alive", status)
	}
	if hb == nil || hb.PID != os.Getpid() {
		t.Errorf("heartbeat = %+v", hb)
	}

	w.Stop()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("heartbeat file not removed on Stop")
	}
}

func TestCheckMissingFile(t *testing.T) {
	status, hb, err := Check(filepath.Join(t.TempDir(), "nope"), time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != StatusDead || hb != nil {
		t.Errorf("status = %s hb = %+v, want dead/nil", status, hb)
	}
}

func TestCheckStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.heartbeat")

	w := NewWriter(path)
	w.Start()
	defer w.Stop()

	time.Sleep(10 * time.Millisecond)
	status, _, err := Check(path, time.Millisecond)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != StatusStale {
		t.Errorf("status = %s, want stale", status)
	}
}
