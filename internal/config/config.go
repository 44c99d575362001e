package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 8080
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "nitai_blogs"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisURL   = "redis://localhost:6379/0"
	defaultFrontend   = "http://localhost:5173"
	defaultLogsDir    = "./logs"
	defaultUploadsDir = "./uploads"
	defaultSiteName   = "Nitai's Blogs"
)

// Load reads and validates the YAML config file at path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	applyDefaults(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Database.DSN == "" && (cfg.Database.Port < 1 || cfg.Database.Port > 65535) {
		return nil, fmt.Errorf("invalid database.port %d in %q, expected 1-65535", cfg.Database.Port, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port:        defaultPort,
		Env:         defaultEnv,
		RedisURL:    defaultRedisURL,
		FrontendURL: defaultFrontend,
		Database: DatabaseConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
			Loc:      defaultDBLoc,
		},
		Paths: PathsConfig{
			Logs:    defaultLogsDir,
			Uploads: defaultUploadsDir,
		},
		Mail: MailConfig{SiteName: defaultSiteName},
	}
}

// applyDefaults fills zero values that yaml.Unmarshal may have cleared when
// a section is present but partially specified.
func applyDefaults(cfg *AppConfig) {
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = defaultFrontend
	}
	if cfg.Paths.Logs == "" {
		cfg.Paths.Logs = defaultLogsDir
	}
	if cfg.Paths.Uploads == "" {
		cfg.Paths.Uploads = defaultUploadsDir
	}
	if cfg.Mail.SiteName == "" {
		cfg.Mail.SiteName = defaultSiteName
	}
	db := &cfg.Database
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Name == "" {
		db.Name = defaultDBName
	}
	if db.Charset == "" {
		db.Charset = defaultDBCharset
	}
	if db.Loc == "" {
		db.Loc = defaultDBLoc
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

// DSNValue builds the MySQL DSN from the discrete fields unless an explicit
// DSN was configured.
func (d DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(d.DSN); v != "" {
		return v
	}

	params := neturl.Values{}
	params.Set("charset", d.Charset)
	params.Set("parseTime", "True")
	params.Set("loc", d.Loc)

	addr := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s", d.User, d.Password, addr, d.Name, params.Encode())
}

// MailEnabled reports whether any outbound mail transport is usable.
func (m MailConfig) MailEnabled() bool {
	if !m.Enable || strings.TrimSpace(m.From) == "" {
		return false
	}
	return strings.TrimSpace(m.ResendKey) != "" || strings.TrimSpace(m.SMTP.Host) != ""
}
