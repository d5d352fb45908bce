package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload:  UploadConfig{MaxFileSize: 1, MaxConcurrent: 1, MaxWaitTime: time.Second, Timeout: time.Minute, ResultRetention: time.Minute},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, UploadLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxConcurrent != 4 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 4)
	}
	if cfg.Upload.MaxFileSize != 10485760 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 10485760)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
	if cfg.Seed.File != "" {
		t.Errorf("Seed.File = %q, want empty", cfg.Seed.File)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxConcurrent != 10 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 3000)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("UPLOAD_MAX_CONCURRENT", "many")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for non-numeric UPLOAD_MAX_CONCURRENT")
	}
	if !strings.Contains(err.Error(), "UPLOAD_MAX_CONCURRENT") {
		t.Errorf("error should mention UPLOAD_MAX_CONCURRENT: %v", err)
	}
}

func TestDecode_Required(t *testing.T) {
	var target struct {
		Token string `env:"CHEMLAB_TEST_TOKEN" required:"true"`
	}

	for _, vars := range []map[string]string{{}, {"CHEMLAB_TEST_TOKEN": "  "}} {
		err := decode(reflect.ValueOf(&target).Elem(), MapLookup(vars))
		if err == nil || !strings.Contains(err.Error(), "CHEMLAB_TEST_TOKEN is required") {
			t.Errorf("decode(%v) error = %v, want required error", vars, err)
		}
	}
}

func TestLoadFrom_ReportsEveryBadVariable(t *testing.T) {
	_, err := LoadFrom(MapLookup(map[string]string{
		"SERVER_PORT":         "eighty",
		"UPLOAD_TIMEOUT":      "soon",
		"SECURITY_ENABLE_CSP": "maybe",
	}))
	if err == nil {
		t.Fatal("LoadFrom() expected error")
	}
	for _, key := range []string{"SERVER_PORT", "UPLOAD_TIMEOUT", "SECURITY_ENABLE_CSP"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should mention %s: %v", key, err)
		}
	}
}

func TestLoadFrom_MapLookup(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{
		"PORT":              "3001",
		"RATE_LIMIT_UPLOAD": "2",
		"TRUSTED_PROXIES":   " , 10.0.0.1",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 3001 {
		t.Errorf("Server.Port = %d, want 3001", cfg.Server.Port)
	}
	if cfg.Rate.UploadLimit != 2 {
		t.Errorf("Rate.UploadLimit = %d, want 2", cfg.Rate.UploadLimit)
	}
	if !reflect.DeepEqual(cfg.Security.TrustedProxies, []string{"10.0.0.1"}) {
		t.Errorf("TrustedProxies = %v", cfg.Security.TrustedProxies)
	}
	if cfg.Upload.Timeout != 2*time.Minute {
		t.Errorf("Upload.Timeout = %v, want default 2m", cfg.Upload.Timeout)
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("UPLOAD_MAX_WAIT_TIME", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Upload.MaxWaitTime != 90*time.Second {
		t.Errorf("Upload.MaxWaitTime = %v, want %v", cfg.Upload.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://lab.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if !reflect.DeepEqual(cfg.Security.TrustedProxies, expected) {
		t.Errorf("TrustedProxies = %v, want %v", cfg.Security.TrustedProxies, expected)
	}
	if len(cfg.Security.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.Security.AllowedOrigins)
	}
}

func TestLoad_SeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("directories: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SEED_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Seed.File != path {
		t.Errorf("Seed.File = %q, want %q", cfg.Seed.File, path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero upload size", func(c *Config) { c.Upload.MaxFileSize = 0 }, "UPLOAD_MAX_FILE_SIZE"},
		{"zero retention", func(c *Config) { c.Upload.ResultRetention = 0 }, "UPLOAD_RESULT_RETENTION"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"rate limit without budget", func(c *Config) { c.Rate.RequestsPerMinute = 0 }, "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{"rate limit disabled", func(c *Config) { c.Rate = RateLimitConfig{} }, ""},
		{"bad origin", func(c *Config) { c.Security.AllowedOrigins = []string{"localhost:5173"} }, "CORS_ALLOWED_ORIGINS"},
		{"missing seed file", func(c *Config) { c.Seed.File = "/nonexistent/seed.yaml" }, "SEED_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestUploadServiceConfig(t *testing.T) {
	u := UploadConfig{MaxFileSize: 42, MaxConcurrent: 3, MaxWaitTime: time.Second, Timeout: time.Minute, ResultRetention: time.Hour}
	sc := u.ServiceConfig()

	if sc.MaxFileSize != 42 || sc.MaxConcurrent != 3 {
		t.Errorf("ServiceConfig() = %+v", sc)
	}
	if sc.UploadTimeout != time.Minute || sc.ResultRetention != time.Hour {
		t.Errorf("ServiceConfig() durations = %v, %v", sc.UploadTimeout, sc.ResultRetention)
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	cfg.Seed.File = "lab.yaml"
	str := cfg.String()
	if !strings.Contains(str, `Seed: {File: "lab.yaml"}`) {
		t.Errorf("String() = %q, missing seed file", str)
	}
	if !strings.Contains(str, `Server: {Addr: ":8080"}`) {
		t.Errorf("String() = %q, missing server address", str)
	}
}
