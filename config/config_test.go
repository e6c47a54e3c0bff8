package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/opgate/catalog"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "opgate"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "opgate" {
			t.Errorf("expected logging service name to follow name, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "opgate", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "opgate", Environment: "development"}, false, ""},
		{"valid production", ServiceConfig{Name: "opgate", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "opgate", Environment: "invalid"}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultDispatcherConfig(t *testing.T) {
	cfg := DefaultDispatcherConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.MapFactor != 5 || cfg.FilterThreshold != 1 || cfg.ProjectFactor != 3 {
		t.Errorf("unexpected factors %+v", cfg)
	}
	if cfg.DelayDuration != 2*time.Second || cfg.DebounceWindow != time.Second || cfg.ProjectDelay != time.Second {
		t.Errorf("unexpected durations %+v", cfg)
	}
	if cfg.TakeCount != 3 || cfg.SkipCount != 3 {
		t.Errorf("unexpected counts take=%d skip=%d", cfg.TakeCount, cfg.SkipCount)
	}
	if cfg.PluckRecord.Name != "Brian" || cfg.PluckRecord.Age != 29 || cfg.PluckKey != "age" {
		t.Errorf("unexpected pluck settings %+v %q", cfg.PluckRecord, cfg.PluckKey)
	}
	if cfg.AuxiliaryValue != "BRLG" {
		t.Errorf("unexpected auxiliary value %q", cfg.AuxiliaryValue)
	}
}

func TestDispatcherConfigCatalogParams(t *testing.T) {
	cfg := DefaultDispatcherConfig()
	if got, want := cfg.CatalogParams(), catalog.DefaultParams(); !reflect.DeepEqual(got, want) {
		t.Errorf("default config maps to %+v, want %+v", got, want)
	}

	cfg.TakeCount = 1
	cfg.PluckRecord = PluckRecord{Name: "Ada", Age: 36}
	cfg.AuxiliaryDelay = 500 * time.Millisecond
	p := cfg.CatalogParams()
	if p.TakeCount != 1 || p.AuxiliaryDelay != 500*time.Millisecond {
		t.Errorf("overrides not mapped: %+v", p)
	}
	if p.PluckRecord["name"] != "Ada" || p.PluckRecord["age"] != 36.0 {
		t.Errorf("pluck record = %v", p.PluckRecord)
	}

	c, err := catalog.Default(p)
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	take, _ := c.Describe("take")
	if s := take.Spec.(catalog.TakeSpec); s.Count != 1 {
		t.Errorf("take count = %d", s.Count)
	}
}

func TestDispatcherConfigApplyDefaults(t *testing.T) {
	cfg := DispatcherConfig{FilterThreshold: 0, TakeCount: 7}
	cfg.ApplyDefaults()

	if cfg.MapFactor != 5 {
		t.Errorf("expected map factor 5, got %v", cfg.MapFactor)
	}
	if cfg.FilterThreshold != 0 {
		t.Errorf("filter threshold zero is meaningful and must be kept, got %v", cfg.FilterThreshold)
	}
	if cfg.TakeCount != 7 {
		t.Errorf("explicit take count must be kept, got %d", cfg.TakeCount)
	}
	if cfg.DebounceWindow != time.Second {
		t.Errorf("expected debounce window 1s, got %v", cfg.DebounceWindow)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestDispatcherConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DispatcherConfig)
		errMsg string
	}{
		{"negative take", func(c *DispatcherConfig) { c.TakeCount = -1 }, "take_count"},
		{"negative delay", func(c *DispatcherConfig) { c.DelayDuration = -time.Second }, "delay_duration"},
		{"zero debounce", func(c *DispatcherConfig) { c.DebounceWindow = 0 }, "debounce_window"},
		{"unknown pluck key", func(c *DispatcherConfig) { c.PluckKey = "email" }, "pluck_key"},
		{"empty auxiliary", func(c *DispatcherConfig) { c.AuxiliaryValue = "" }, "auxiliary_value"},
		{"queue too small", func(c *DispatcherConfig) { c.QueueSize = 0 }, "queue_size"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultDispatcherConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error mentioning %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Dispatcher    DispatcherConfig `yaml:"dispatcher" mapstructure:"dispatcher"`
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: opgate
environment: staging
version: "1.0.0"
dispatcher:
  take_count: 5
  delay_duration: 500ms
  initial_operator: take
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := testConfig{Dispatcher: DefaultDispatcherConfig()}
	err := LoadConfig("opgate-test", &cfg, WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "opgate" {
		t.Errorf("expected name 'opgate', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Dispatcher.TakeCount != 5 {
		t.Errorf("expected take_count 5, got %d", cfg.Dispatcher.TakeCount)
	}
	if cfg.Dispatcher.DelayDuration != 500*time.Millisecond {
		t.Errorf("expected delay 500ms, got %v", cfg.Dispatcher.DelayDuration)
	}
	if cfg.Dispatcher.InitialOperator != "take" {
		t.Errorf("expected initial operator take, got %q", cfg.Dispatcher.InitialOperator)
	}
	if cfg.Dispatcher.SkipCount != 3 {
		t.Errorf("unset keys should keep defaults, got skip_count %d", cfg.Dispatcher.SkipCount)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("name: opgate\ndispatcher:\n  take_count: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("OPGATEENV_DISPATCHER_TAKE_COUNT", "9")
	t.Setenv("OPGATEENV_DISPATCHER_AUXILIARY_VALUE", "XYZ")

	cfg := testConfig{Dispatcher: DefaultDispatcherConfig()}
	err := LoadConfig("opgateenv", &cfg, WithConfigFile(configPath), WithEnvFile(filepath.Join(dir, "missing.env")))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Dispatcher.TakeCount != 9 {
		t.Errorf("expected env to override take_count, got %d", cfg.Dispatcher.TakeCount)
	}
	if cfg.Dispatcher.AuxiliaryValue != "XYZ" {
		t.Errorf("expected env to override auxiliary_value, got %q", cfg.Dispatcher.AuxiliaryValue)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("DOTENVSVC_DISPATCHER_SKIP_COUNT=4\n"), 0644); err != nil {
		t.Fatalf("failed to write env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("DOTENVSVC_DISPATCHER_SKIP_COUNT") })

	cfg := testConfig{Dispatcher: DefaultDispatcherConfig()}
	err := LoadConfig("dotenvsvc", &cfg, WithConfigFile(filepath.Join(dir, "none.yml")), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Dispatcher.SkipCount != 4 {
		t.Errorf("expected .env to set skip_count, got %d", cfg.Dispatcher.SkipCount)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := testConfig{Dispatcher: DefaultDispatcherConfig()}
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
	if cfg.Dispatcher.TakeCount != 3 {
		t.Errorf("expected defaults to survive, got %d", cfg.Dispatcher.TakeCount)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("name: [unterminated\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	var cfg testConfig
	if err := LoadConfig("opgate", &cfg, WithConfigFile(configPath)); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/opgate/config.yml": true,
		"./.env":                  true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("opgate", LoaderConfig{})
	if files.ConfigFile != "./cmd/opgate/config.yml" {
		t.Errorf("expected config file at ./cmd/opgate/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected env file at ./.env, got %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles("opgate", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if explicit.ConfigFile != "a.yml" || explicit.EnvFile != "b.env" {
		t.Errorf("explicit paths should win, got %+v", explicit)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("DISPATCHER_TAKE_COUNT")
	want := map[string]bool{
		"dispatcher_take_count": true,
		"dispatcher.take.count": true,
		"dispatcher.take_count": true,
		"dispatcher_take.count": true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %v", len(want), got)
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("X_")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "X_" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
