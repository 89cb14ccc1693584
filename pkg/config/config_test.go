package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.Server.Port)
	}
	if cfg.LLM.Provider != ProviderGroq {
		t.Fatalf("expected provider %q, got %q", ProviderGroq, cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "gsk-test" {
		t.Fatalf("expected api key from GROQ_API_KEY, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.VisionMaxTokens != 4096 {
		t.Fatalf("expected vision max tokens 4096, got %d", cfg.LLM.VisionMaxTokens)
	}
	if cfg.LLM.Timeout != 0 {
		t.Fatalf("expected no llm timeout by default, got %v", cfg.LLM.Timeout)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Fatalf("expected 384 embedding dimensions, got %d", cfg.Embedding.Dimensions)
	}
	if len(cfg.Proxy.AllowedHosts) != 0 {
		t.Fatalf("expected empty proxy allowlist, got %v", cfg.Proxy.AllowedHosts)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-fallback")
	t.Setenv("LLM_API_KEY", "primary")
	t.Setenv("LLM_PROVIDER", " GigaChat ")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("PROXY_ALLOWED_HOSTS", "Example.com, arxiv.org,,")
	t.Setenv("VISION_MAX_TOKENS", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.APIKey != "primary" {
		t.Fatalf("expected LLM_API_KEY to win, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Provider != ProviderGigaChat {
		t.Fatalf("expected normalized provider, got %q", cfg.LLM.Provider)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("expected 5s read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.LLM.VisionMaxTokens != 1024 {
		t.Fatalf("expected 1024 vision tokens, got %d", cfg.LLM.VisionMaxTokens)
	}

	want := []string{"example.com", "arxiv.org"}
	if len(cfg.Proxy.AllowedHosts) != len(want) {
		t.Fatalf("expected hosts %v, got %v", want, cfg.Proxy.AllowedHosts)
	}
	for i, host := range want {
		if cfg.Proxy.AllowedHosts[i] != host {
			t.Fatalf("host %d: expected %q, got %q", i, host, cfg.Proxy.AllowedHosts[i])
		}
	}
}
