package filesystem

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"ESTALE error", syscall.ESTALE, true},
		{"wrapped ESTALE", &os.PathError{Op: "open", Path: "/x", Err: syscall.ESTALE}, true},
		{"ENOENT error", syscall.ENOENT, false},
		{"generic error", os.ErrNotExist, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNFSStaleError(tt.err); got != tt.want {
				t.Errorf("isNFSStaleError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryRecoversFromStale(t *testing.T) {
	calls := 0
	got, err := retry("test", "/x", fastRetryConfig(), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, syscall.ESTALE
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("retry() error = %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	_, err := retry("test", "/x", fastRetryConfig(), func() (int, error) {
		calls++
		return 0, syscall.ESTALE
	})

	if !errors.Is(err, syscall.ESTALE) {
		t.Errorf("error = %v, want ESTALE", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (1 + 3 retries)", calls)
	}
}

func TestRetryDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	_, err := retry("test", "/x", fastRetryConfig(), func() (int, error) {
		calls++
		return 0, os.ErrPermission
	})

	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("error = %v, want ErrPermission", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestFileOperations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.jpg")
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	if err := WriteFileWithRetry(path, data, 0o644, fastRetryConfig()); err != nil {
		t.Fatalf("WriteFileWithRetry() error = %v", err)
	}

	info, err := StatWithRetry(path, fastRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry() error = %v", err)
	}
	if info.Size() != int64(len(data)) {
		t.Errorf("Size = %d, want %d", info.Size(), len(data))
	}

	got, err := ReadFileWithRetry(path, fastRetryConfig())
	if err != nil {
		t.Fatalf("ReadFileWithRetry() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("read data differs from written data")
	}

	if _, err := StatWithRetry(filepath.Join(dir, "missing"), fastRetryConfig()); !os.IsNotExist(err) {
		t.Errorf("StatWithRetry(missing) error = %v, want not-exist", err)
	}
}
