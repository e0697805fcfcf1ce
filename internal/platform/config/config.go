package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	defaultCacheTTL        = 5 * time.Minute
)

// Config はアプリケーション全体の設定を表現します。
// YAML ファイルを読み込んだ後、環境変数で上書きします。
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Database  DatabaseConfig  `yaml:"database" envPrefix:"DATABASE_"`
	Directory DirectoryConfig `yaml:"directory" envPrefix:"DIRECTORY_"`
	Cache     CacheConfig     `yaml:"cache" envPrefix:"CACHE_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
}

// ServerConfig は HTTP サーバーとヘルスチェック用 gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr         string        `yaml:"listen_addr" env:"LISTEN_ADDR"`
	HealthListenAddr   string        `yaml:"health_listen_addr" env:"HEALTH_LISTEN_ADDR"`
	CORSOrigins        []string      `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	ReadTimeout        time.Duration `yaml:"-"`
	WriteTimeout       time.Duration `yaml:"-"`
	IdleTimeout        time.Duration `yaml:"-"`
	ShutdownTimeout    time.Duration `yaml:"-"`
	ReadTimeoutRaw     string        `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeoutRaw    string        `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeoutRaw     string        `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
// QueryLogLevel は SQL トレースの出力レベルです (trace/debug/info/warn/error/none)。空なら出力しません。
type DatabaseConfig struct {
	Host               string        `yaml:"host" env:"HOST"`
	Port               int           `yaml:"port" env:"PORT"`
	User               string        `yaml:"user" env:"USER"`
	Password           string        `yaml:"password" env:"PASSWORD"`
	Name               string        `yaml:"name" env:"NAME"`
	SSLMode            string        `yaml:"ssl_mode" env:"SSL_MODE"`
	MaxOpenConns       int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns       int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME"`
	QueryLogLevel      string        `yaml:"query_log_level" env:"QUERY_LOG_LEVEL"`
}

// DirectoryConfig は外部社員ディレクトリに関する設定です。
// Token は呼び出し元が認証情報を送らなかった場合にのみ使われます。
type DirectoryConfig struct {
	BaseURL    string        `yaml:"base_url" env:"BASE_URL"`
	Token      string        `yaml:"token" env:"TOKEN"`
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout" env:"TIMEOUT"`
}

// CacheConfig はディレクトリ参照結果の Redis キャッシュに関する設定です。
// RedisAddr が空の場合キャッシュは無効です。
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`
	TTL           time.Duration `yaml:"-"`
	TTLRaw        string        `yaml:"ttl" env:"TTL"`
}

// Enabled はキャッシュが設定されているかを返します。
func (c CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if err := c.Server.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Directory.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Cache.validateAndNormalize(); err != nil {
		return err
	}
	c.Log.normalize()
	return nil
}

func (s *ServerConfig) validateAndNormalize() error {
	if s.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	timeouts := []struct {
		key      string
		raw      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"server.read_timeout", s.ReadTimeoutRaw, defaultReadTimeout, &s.ReadTimeout},
		{"server.write_timeout", s.WriteTimeoutRaw, defaultWriteTimeout, &s.WriteTimeout},
		{"server.idle_timeout", s.IdleTimeoutRaw, defaultIdleTimeout, &s.IdleTimeout},
		{"server.shutdown_timeout", s.ShutdownTimeoutRaw, defaultShutdownTimeout, &s.ShutdownTimeout},
	}
	for _, t := range timeouts {
		d, err := parseDurationAllowEmpty(t.raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", t.key, err)
		}
		if d == 0 {
			d = t.fallback
		}
		*t.dst = d
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (d *DirectoryConfig) validateAndNormalize() error {
	d.BaseURL = strings.TrimRight(strings.TrimSpace(d.BaseURL), "/")
	if d.BaseURL == "" {
		return fmt.Errorf("config: directory.base_url must be set")
	}
	u, err := url.Parse(d.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: directory.base_url must be an absolute URL")
	}

	timeout, err := parseDurationAllowEmpty(d.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: directory.timeout: %w", err)
	}
	d.Timeout = timeout

	return nil
}

func (c *CacheConfig) validateAndNormalize() error {
	ttl, err := parseDurationAllowEmpty(c.TTLRaw)
	if err != nil {
		return fmt.Errorf("config: cache.ttl: %w", err)
	}
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	c.TTL = ttl
	return nil
}

func (l *LogConfig) normalize() {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "json"
	}
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。認証情報はエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
