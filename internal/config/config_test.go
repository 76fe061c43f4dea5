package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServer_Defaults(t *testing.T) {
	cfg, err := LoadServer("")
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.MasterKey != "" {
		t.Errorf("MasterKey = %q, want empty", cfg.MasterKey)
	}
	if len(cfg.ReservedIdentifiers) != 1 || cfg.ReservedIdentifiers[0] != "master@infra.local" {
		t.Errorf("ReservedIdentifiers = %v, want [master@infra.local]", cfg.ReservedIdentifiers)
	}
	if cfg.TabIdleTTL != 12*time.Hour {
		t.Errorf("TabIdleTTL = %s, want 12h", cfg.TabIdleTTL)
	}
}

func TestLoadServer_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loginhub.yaml")
	content := `addr: ":9000"
api_url: http://backend:3000
master_key: from-file
tab_idle_ttl: 30m
secure_cookies: true
reserved_identifiers:
  - root@ops.local
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOGINHUB_ADDR", ":9100")
	t.Setenv("LOGINHUB_JANITOR_INTERVAL_SECONDS", "90")

	cfg, err := LoadServer(path)
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.Addr != ":9100" {
		t.Errorf("Addr = %q, want env override :9100", cfg.Addr)
	}
	if cfg.APIURL != "http://backend:3000" {
		t.Errorf("APIURL = %q, want file value", cfg.APIURL)
	}
	if cfg.MasterKey != "from-file" {
		t.Errorf("MasterKey = %q, want from-file", cfg.MasterKey)
	}
	if cfg.TabIdleTTL != 30*time.Minute {
		t.Errorf("TabIdleTTL = %s, want 30m", cfg.TabIdleTTL)
	}
	if cfg.JanitorInterval != 90*time.Second {
		t.Errorf("JanitorInterval = %s, want 90s", cfg.JanitorInterval)
	}
	if !cfg.SecureCookies {
		t.Error("SecureCookies = false, want true")
	}
	if len(cfg.ReservedIdentifiers) != 1 || cfg.ReservedIdentifiers[0] != "root@ops.local" {
		t.Errorf("ReservedIdentifiers = %v", cfg.ReservedIdentifiers)
	}
}

func TestLoadServer_BadFile(t *testing.T) {
	if _, err := LoadServer(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadServer(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadServer_MasterKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	if err := os.WriteFile(path, []byte("  keep spaces \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOGINHUB_MASTER_KEY", "ignored")
	t.Setenv("LOGINHUB_MASTER_KEY_FILE", path)

	cfg, err := LoadServer("")
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.MasterKey != "  keep spaces " {
		t.Errorf("MasterKey = %q, want %q", cfg.MasterKey, "  keep spaces ")
	}
}

func TestLoad_UnreadableMasterKeyFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "master.key")
	t.Setenv("LOGINHUB_MASTER_KEY", "fallback")
	t.Setenv("LOGINHUB_MASTER_KEY_FILE", missing)
	t.Setenv("LOGINHUB_STATE_DIR", t.TempDir())

	if _, err := LoadServer(""); err == nil {
		t.Error("LoadServer: expected error for unreadable master key file")
	}
	if _, err := LoadClient(""); err == nil {
		t.Error("LoadClient: expected error for unreadable master key file")
	}
}

func TestGetenvList(t *testing.T) {
	t.Setenv("LOGINHUB_RESERVED_IDENTIFIERS", " a@x , ,b@y")
	got := getenvList("RESERVED_IDENTIFIERS", nil)
	if len(got) != 2 || got[0] != "a@x" || got[1] != "b@y" {
		t.Errorf("getenvList = %v, want [a@x b@y]", got)
	}

	t.Setenv("LOGINHUB_RESERVED_IDENTIFIERS", "")
	got = getenvList("RESERVED_IDENTIFIERS", []string{"default"})
	if got == nil || len(got) != 0 {
		t.Errorf("getenvList(empty) = %#v, want empty non-nil slice", got)
	}
}

func TestLoadClient_StateDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOGINHUB_STATE_DIR", dir)
	t.Setenv("LOGINHUB_REQUEST_TIMEOUT", "2s")

	cfg, err := LoadClient("")
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.StateDir != dir {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, dir)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("RequestTimeout = %s, want 2s", cfg.RequestTimeout)
	}
}
