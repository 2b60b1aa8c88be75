package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaModels checks that a model is present on an Ollama server and pulls it when allowed
type OllamaModels struct {
	baseURL string
	model   string
	pull    bool
	client  *http.Client
}

// NewOllamaModels creates a model manager. An empty baseURL targets the local default server.
func NewOllamaModels(baseURL, model string, pull bool, timeout time.Duration) *OllamaModels {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	// pulling a model can take far longer than a completion
	if timeout < 10*time.Minute {
		timeout = 10 * time.Minute
	}
	return &OllamaModels{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		pull:    pull,
		client:  &http.Client{Timeout: timeout},
	}
}

type ollamaTags struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Available reports whether the model is listed by the server
func (o *OllamaModels) Available(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var tags ollamaTags
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return false, err
	}
	for _, m := range tags.Models {
		if m.Name == o.model || m.Model == o.model {
			return true, nil
		}
	}
	return false, nil
}

// Pull downloads the model and waits for completion
func (o *OllamaModels) Pull(ctx context.Context) error {
	b, err := json.Marshal(map[string]interface{}{"name": o.model, "stream": false})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/pull", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ollama pull returned status %d", resp.StatusCode)
	}
	return nil
}

// Ensure verifies the model is available, pulling it when missing and pulling
// is enabled. A pulled model must show up in the listing afterwards.
func (o *OllamaModels) Ensure(ctx context.Context) error {
	ok, err := o.Available(ctx)
	if err != nil {
		return fmt.Errorf("list ollama models: %w", err)
	}
	if ok {
		return nil
	}
	if !o.pull {
		return fmt.Errorf("model %q is not available on %s", o.model, o.baseURL)
	}
	if err := o.Pull(ctx); err != nil {
		return fmt.Errorf("pull model %q: %w", o.model, err)
	}

	ok, err = o.Available(ctx)
	if err != nil {
		return fmt.Errorf("list ollama models after pull: %w", err)
	}
	if !ok {
		return fmt.Errorf("model %q still missing on %s after pull", o.model, o.baseURL)
	}
	return nil
}
