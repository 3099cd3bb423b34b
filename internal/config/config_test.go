package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAgentDefaults(t *testing.T) {
	cfg, err := LoadAgent("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Interval != 24*time.Hour {
		t.Errorf("interval default = %s", cfg.Interval)
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("max_concurrency default = %d", cfg.MaxConcurrency)
	}
	if cfg.ProbeTimeout != 15*time.Second {
		t.Errorf("probe_timeout default = %s", cfg.ProbeTimeout)
	}
}

func TestLoadCollectorDefaults(t *testing.T) {
	cfg, err := LoadCollector("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPListen != ":9560" {
		t.Errorf("http_listen default = %s", cfg.HTTPListen)
	}
	if cfg.DatabasePath != "reports.db" {
		t.Errorf("database default = %s", cfg.DatabasePath)
	}
	if cfg.PurgeInterval != 24*time.Hour {
		t.Errorf("purge_interval default = %s", cfg.PurgeInterval)
	}
}

func TestLoadAgentFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	content := `
endpoint: https://ingest.example.com
workspace_id: ws-42
interval: 1h
folder_targets:
  - C:\Users
  - C:\ProgramData
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadAgent(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint != "https://ingest.example.com" || cfg.WorkspaceID != "ws-42" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Interval != time.Hour {
		t.Errorf("interval = %s", cfg.Interval)
	}
	if len(cfg.FolderTargets) != 2 {
		t.Errorf("folder_targets = %v", cfg.FolderTargets)
	}
}
