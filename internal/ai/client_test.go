package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/plantaops/planta-dashboard/internal/config"
)

func completionBody(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func newTestClient(endpoint string, models ...string) *Client {
	return NewClient(config.AIConfig{
		APIKey:         "test-key",
		Endpoint:       endpoint,
		Models:         models,
		TimeoutSeconds: 5,
	})
}

func TestCompleteFallsThroughToNextModel(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model := strings.TrimPrefix(strings.TrimSuffix(r.URL.Path, ":generateContent"), "/")
		calls = append(calls, model)
		switch model {
		case "gone-model":
			w.WriteHeader(http.StatusNotFound)
		case "busy-model":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			fmt.Fprint(w, completionBody(`{"insight":"ok"}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "gone-model", "busy-model", "good-model")
	text, err := client.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != `{"insight":"ok"}` {
		t.Errorf("text = %q", text)
	}
	if len(calls) != 3 {
		t.Errorf("calls = %v, want all three models in order", calls)
	}
}

func TestCompleteAbortsOnInvalidKey(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"API key not valid. Please pass a valid API key."}}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "model-a", "model-b", "model-c")
	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("err = %v, want ErrInvalidAPIKey", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (loop must abort on bad key)", calls)
	}
}

func TestCompleteBadRequestModelAdvances(t *testing.T) {
	// A 400 without the key marker means this key cannot use this model;
	// the next one may still work.
	first := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if first {
			first = false
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"message":"model does not support generateContent"}}`)
			return
		}
		fmt.Fprint(w, completionBody(`{"insight":"ok"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "model-a", "model-b")
	if _, err := client.Complete(context.Background(), "prompt"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
}

func TestCompleteAllModelsExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "model-a", "model-b")
	if _, err := client.Complete(context.Background(), "prompt"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestCompleteWithoutCredentials(t *testing.T) {
	client := NewClient(config.AIConfig{})
	if _, err := client.Complete(context.Background(), "prompt"); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("err = %v, want ErrInvalidAPIKey", err)
	}
}

func TestCompleteEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, "model-a")
	if _, err := client.Complete(context.Background(), "prompt"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}
