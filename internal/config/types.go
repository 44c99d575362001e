package config

// AppConfig holds runtime startup configuration loaded from YAML. It is
// constructed once in main and passed into the components that need it;
// nothing reads the environment ad hoc.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	Database       DatabaseConfig `yaml:"database"`
	RedisURL       string         `yaml:"redis_url"`
	JWTSecret      string         `yaml:"jwt_secret"`
	FrontendURL    string         `yaml:"frontend_url"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Admin          AdminConfig    `yaml:"admin"`
	Mail           MailConfig     `yaml:"mail"`
	AI             AIConfig       `yaml:"ai"`
	S3             S3Config       `yaml:"s3"`
	Paths          PathsConfig    `yaml:"paths"`
}

// DatabaseConfig describes the MySQL connection. DSN wins when set.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// AdminConfig holds the owner and demo-account credentials. The demo
// account can log in but is blocked from all write operations.
type AdminConfig struct {
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	DemoEmail    string `yaml:"demo_email"`
	DemoPassword string `yaml:"demo_password"`
}

// MailConfig configures outbound email. When neither a Resend key nor SMTP
// credentials are present, dispatch is disabled and state changes proceed
// without sending.
type MailConfig struct {
	Enable    bool       `yaml:"enable"`
	From      string     `yaml:"from"`
	ReplyTo   string     `yaml:"reply_to"`
	ResendKey string     `yaml:"resend_key"`
	SMTP      SMTPConfig `yaml:"smtp"`
	SiteName  string     `yaml:"site_name"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// AIConfig selects the generative-text provider used for content drafting.
// Type is "openai", "anthropic" or "openai-compatible" (the latter covers
// Gemini's OpenAI-compatible endpoint).
type AIConfig struct {
	Type     string `yaml:"type"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// S3Config configures cover-image storage. Empty bucket falls back to
// local disk under Paths.Uploads.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"`
	CustomDomain    string `yaml:"custom_domain"`
}

type PathsConfig struct {
	Logs    string `yaml:"logs"`
	Uploads string `yaml:"uploads"`
}
