package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newOllamaServer lists models until a pull happens, then afterPull
func newOllamaServer(t *testing.T, models, afterPull string, pulled *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			if *pulled > 0 {
				w.Write([]byte(afterPull))
				return
			}
			w.Write([]byte(models))
		case "/api/pull":
			if r.Method != http.MethodPost {
				t.Fatalf("expected POST got %s", r.Method)
			}
			*pulled++
			w.Write([]byte(`{"status":"success"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestOllamaModels_AlreadyAvailable(t *testing.T) {
	pulled := 0
	ts := newOllamaServer(t, `{"models":[{"name":"qwen2.5:3b","model":"qwen2.5:3b"}]}`, "", &pulled)
	defer ts.Close()

	m := NewOllamaModels(ts.URL, "qwen2.5:3b", true, time.Second)
	if err := m.Ensure(context.Background()); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if pulled != 0 {
		t.Fatalf("expected no pull, got %d", pulled)
	}
}

func TestOllamaModels_PullsMissing(t *testing.T) {
	pulled := 0
	ts := newOllamaServer(t, `{"models":[]}`, `{"models":[{"name":"qwen2.5:3b"}]}`, &pulled)
	defer ts.Close()

	m := NewOllamaModels(ts.URL, "qwen2.5:3b", true, time.Second)
	if err := m.Ensure(context.Background()); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if pulled != 1 {
		t.Fatalf("expected 1 pull, got %d", pulled)
	}
}

func TestOllamaModels_PullThatDoesNotRegisterFails(t *testing.T) {
	pulled := 0
	ts := newOllamaServer(t, `{"models":[]}`, `{"models":[]}`, &pulled)
	defer ts.Close()

	m := NewOllamaModels(ts.URL, "qwen2.5:3b", true, time.Second)
	if err := m.Ensure(context.Background()); err == nil {
		t.Fatalf("expected error when the model is still missing after pull")
	}
	if pulled != 1 {
		t.Fatalf("expected 1 pull, got %d", pulled)
	}
}

func TestOllamaModels_MissingWithoutPull(t *testing.T) {
	pulled := 0
	ts := newOllamaServer(t, `{"models":[{"name":"llama3:8b"}]}`, "", &pulled)
	defer ts.Close()

	m := NewOllamaModels(ts.URL, "qwen2.5:3b", false, time.Second)
	if err := m.Ensure(context.Background()); err == nil {
		t.Fatalf("expected error when model missing and pulling disabled")
	}
	if pulled != 0 {
		t.Fatalf("expected no pull, got %d", pulled)
	}
}

func TestOllamaModels_DefaultURL(t *testing.T) {
	m := NewOllamaModels("", "m", false, 0)
	if m.baseURL != defaultOllamaURL {
		t.Fatalf("expected default url, got %s", m.baseURL)
	}
}
