package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "port: 9000\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("env should default to development")
	}
	if cfg.Database.Host != "127.0.0.1" || cfg.Database.Port != 3306 {
		t.Errorf("db defaults wrong: %+v", cfg.Database)
	}
	if cfg.Paths.Logs != "./logs" || cfg.Paths.Uploads != "./uploads" {
		t.Errorf("path defaults wrong: %+v", cfg.Paths)
	}
	if cfg.Mail.SiteName == "" {
		t.Error("site name default missing")
	}
}

func TestLoadPartialSectionKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "database:\n  name: myblog\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Name != "myblog" {
		t.Errorf("db name = %q", cfg.Database.Name)
	}
	if cfg.Database.Host != "127.0.0.1" || cfg.Database.Charset != "utf8mb4" {
		t.Errorf("partial database section lost defaults: %+v", cfg.Database)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Parallel()

	if _, err := Load(writeConfig(t, "port: 70000\n")); err == nil {
		t.Error("want error for out-of-range port")
	}
	if _, err := Load(writeConfig(t, "database:\n  port: -1\n")); err == nil {
		t.Error("want error for out-of-range database port")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("want error for missing file")
	}
}

func TestDSNValue(t *testing.T) {
	t.Parallel()

	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "blog",
		Password: "s3cret",
		Name:     "nitai_blogs",
		Charset:  "utf8mb4",
		Loc:      "Local",
	}
	dsn := d.DSNValue()
	for _, want := range []string{"blog:s3cret@tcp(db.internal:3307)/nitai_blogs", "charset=utf8mb4", "parseTime=True"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}

	d.DSN = "user:pw@tcp(other:3306)/explicit"
	if got := d.DSNValue(); got != d.DSN {
		t.Errorf("explicit DSN not honored: %q", got)
	}
}

func TestMailEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  MailConfig
		want bool
	}{
		{"disabled", MailConfig{}, false},
		{"enabled without transport", MailConfig{Enable: true, From: "a@b.c"}, false},
		{"enabled without from", MailConfig{Enable: true, ResendKey: "re_x"}, false},
		{"resend", MailConfig{Enable: true, From: "a@b.c", ResendKey: "re_x"}, true},
		{"smtp", MailConfig{Enable: true, From: "a@b.c", SMTP: SMTPConfig{Host: "smtp.example.com"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.MailEnabled(); got != tt.want {
				t.Errorf("MailEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
