package services

import (
	"context"
	"errors"
	"testing"
)

func TestProfilePicUploadURL_ValidatesInput(t *testing.T) {
	ms := &MediaService{Bucket: "studybuddy-media"}

	tests := []struct {
		name     string
		uid      string
		fileType string
	}{
		{"missing uid", "", "image/png"},
		{"missing file type", "alice", ""},
		{"non-image file type", "alice", "application/pdf"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ms.ProfilePicUploadURL(context.Background(), tc.uid, tc.fileType)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestProfilePicReadURL_RejectsForeignKeys(t *testing.T) {
	ms := &MediaService{Bucket: "studybuddy-media"}

	for _, key := range []string{"", "etc/passwd", "uploads/alice.png"} {
		if _, err := ms.ProfilePicReadURL(context.Background(), key); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("key %q: expected ErrInvalidArgument, got %v", key, err)
		}
	}
}
