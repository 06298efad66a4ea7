// SPDX-License-Identifier: AGPL-3.0-only
package main

import (
	"flag"
	"testing"

	"github.com/migrateforce/demo-create-api-gateway/internal/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := map[string]string{}
	flag.VisitAll(func(f *flag.Flag) { old[f.Name] = f.Value.String() })
	t.Cleanup(func() {
		for name, val := range old {
			_ = flag.Set(name, val)
		}
	})
}

func TestApplyCommandLineFlagsToConfig(t *testing.T) {
	resetFlags(t)

	_ = flag.Set("port", "9191")
	_ = flag.Set("ai-provider", "anthropic")
	_ = flag.Set("ai-model", "claude-sonnet-4-20250514")
	_ = flag.Set("ai-max-iterations", "4")
	_ = flag.Set("gateway-api-base-url", "http://localhost:8181/v1")
	_ = flag.Set("db-path", "/tmp/audit.db")

	cfg := config.DefaultConfig()
	applyCommandLineFlagsToConfig(cfg)

	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("AI.Provider = %q, want anthropic", cfg.AI.Provider)
	}
	if cfg.AI.Model != "claude-sonnet-4-20250514" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.MaxToolIterations != 4 {
		t.Errorf("AI.MaxToolIterations = %d, want 4", cfg.AI.MaxToolIterations)
	}
	if cfg.Gateway.BaseURL != "http://localhost:8181/v1" {
		t.Errorf("Gateway.BaseURL = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Store.DBPath != "/tmp/audit.db" {
		t.Errorf("Store.DBPath = %q", cfg.Store.DBPath)
	}
}

func TestUnsetFlagsLeaveConfigAlone(t *testing.T) {
	resetFlags(t)

	cfg := config.DefaultConfig()
	want := *cfg
	applyCommandLineFlagsToConfig(cfg)

	if cfg.Server != want.Server || cfg.AI != want.AI || cfg.Gateway != want.Gateway || cfg.Store != want.Store {
		t.Errorf("config changed without flags set:\ngot  %+v\nwant %+v", cfg, &want)
	}
}

func TestGatewayTokenSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gateway.AccessToken = "static-token"

	ts, err := gatewayTokenSource(cfg)
	if err != nil {
		t.Fatalf("gatewayTokenSource: %v", err)
	}
	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "static-token" {
		t.Errorf("AccessToken = %q, want static-token", tok.AccessToken)
	}
}

func TestGatewayTokenSourceLocalStandIn(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gateway.BaseURL = "http://localhost:9999/v1"

	ts, err := gatewayTokenSource(cfg)
	if err != nil {
		t.Fatalf("gatewayTokenSource: %v", err)
	}
	if ts != nil {
		t.Error("expected no token source for a non-Google endpoint without a static token")
	}
}
