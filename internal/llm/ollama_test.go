package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var apiReq ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&apiReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if apiReq.Stream {
			t.Error("Expected stream=false")
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           apiReq.Model,
			Response:        "A local-model recap.",
			Done:            true,
			PromptEvalCount: 40,
			EvalCount:       25,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.2"})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "Write the recap."})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "A local-model recap." {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.TokensUsed != 65 {
		t.Errorf("TokensUsed = %d, want 65", resp.TokensUsed)
	}
}

func TestOllamaProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}

	_, err = provider.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path /api/tags, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable after server close")
	}
}

func TestNewOllamaProvider_DefaultBaseURL(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}
	if provider.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q", provider.baseURL)
	}
	if provider.Name() != "ollama" {
		t.Errorf("Name() = %q, want ollama", provider.Name())
	}
}
