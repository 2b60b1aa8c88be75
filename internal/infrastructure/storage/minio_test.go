package storage

import (
	"fmt"
	"net/url"
	"testing"
)

func TestObjectNames(t *testing.T) {
	if got := RunObjectName("abc"); got != "runs/abc/segments.json" {
		t.Fatalf("unexpected run object name %q", got)
	}
	if got := PlanObjectName("xyz"); got != "plans/xyz.json" {
		t.Fatalf("unexpected plan object name %q", got)
	}
}

func TestPublicObjectURL(t *testing.T) {
	u, err := url.Parse("http://minio:9000/segment-plans/runs/abc/segments.json?X-Amz-Signature=deadbeef")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := publicObjectURL(u, ""); got != u.String() {
		t.Fatalf("expected untouched URL, got %q", got)
	}

	want := "https://files.example.com/segment-plans/runs/abc/segments.json?X-Amz-Signature=deadbeef"
	if got := publicObjectURL(u, "https://files.example.com"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIsNotFound(t *testing.T) {
	err := fmt.Errorf("plans/x.json: %w", ErrObjectNotFound)
	if !IsNotFound(err) {
		t.Fatalf("expected wrapped ErrObjectNotFound to be detected")
	}
	if IsNotFound(fmt.Errorf("timeout")) {
		t.Fatalf("unexpected not-found for plain error")
	}
}
