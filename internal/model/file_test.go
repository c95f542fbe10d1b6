package model

import (
	"errors"
	"testing"
	"time"
)

type countingHasher struct {
	digest string
	err    error
	calls  int
}

func (h *countingHasher) DigestFile(_ Path) (string, error) {
	h.calls++
	return h.digest, h.err
}

func TestFileEntry_Digest(t *testing.T) {
	t.Run("computes once and memoizes", func(t *testing.T) {
		hasher := &countingHasher{digest: "abc123"}
		entry := NewFileEntry("/tmp/a", nil, 10, time.Now())

		for i := 0; i < 3; i++ {
			digest, err := entry.Digest(hasher)
			if err != nil {
				t.Fatalf("Digest() error = %v", err)
			}

			if digest != "abc123" {
				t.Fatalf("Digest() = %q, want abc123", digest)
			}
		}

		if hasher.calls != 1 {
			t.Fatalf("hasher called %d times, want 1", hasher.calls)
		}
	})

	t.Run("unreadable file is a hard error", func(t *testing.T) {
		hasher := &countingHasher{err: errors.New("permission denied")}
		entry := NewFileEntry("/tmp/a", nil, 10, time.Now())

		if _, err := entry.Digest(hasher); err == nil {
			t.Fatal("Digest() expected error for unreadable file")
		}

		if entry.CachedDigest() != "" {
			t.Fatalf("CachedDigest() = %q after failure, want empty", entry.CachedDigest())
		}
	})

	t.Run("metadata snapshot is whatever construction captured", func(t *testing.T) {
		modTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		source := NewSource("/data", 1, nil)
		entry := NewFileEntry("/data/x", source, 42, modTime)

		if entry.Size != 42 {
			t.Fatalf("Size = %d, want 42", entry.Size)
		}

		if !entry.ModTime.Equal(modTime) {
			t.Fatalf("ModTime = %v, want %v", entry.ModTime, modTime)
		}

		if entry.Source != source {
			t.Fatal("entry does not reference its owning source")
		}
	})
}
