package db

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"GENBA-backend/internal/timecalc"
)

const (
	driverName            = "mysql"
	DefaultConfigPath     = "config/config.yaml"
	DefaultUTCOffsetMins  = 9 * 60 // JST
	DefaultJWTSecretValue = "change-me"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// SiteConfig: 現場は単一タイムゾーン（固定オフセット）
type SiteConfig struct {
	UTCOffsetMinutes *int `yaml:"utc_offset_minutes"`
}

// TimeCalcConfig: 未指定の項目は timecalc の既定値
type TimeCalcConfig struct {
	Enabled      *bool  `yaml:"enabled"`
	RoundMinutes *int   `yaml:"round_minutes"`
	BreakMinutes *int   `yaml:"break_minutes"`
	RoundMode    string `yaml:"round_mode"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode"`
	DB          DatabaseConfig `yaml:"database"`
	Certificate Certs          `yaml:"certificate"`
	Auth        AuthConfig     `yaml:"auth"`
	Site        SiteConfig     `yaml:"site"`
	TimeCalc    TimeCalcConfig `yaml:"time_calc"`
}

func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	if _, err := cfg.Calc(); err != nil {
		return nil, fmt.Errorf("time_calc の設定が不正: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DefaultJWTSecretValue
	}
	return &cfg, nil
}

// Calc: time_calc セクション → timecalc.Config（起動時に1回だけ作る）
func (c *Config) Calc() (timecalc.Config, error) {
	out := timecalc.DefaultConfig()
	tc := c.TimeCalc
	if tc.Enabled != nil {
		out.Enabled = *tc.Enabled
	}
	if tc.RoundMinutes != nil {
		out.RoundMinutes = *tc.RoundMinutes
	}
	if tc.BreakMinutes != nil {
		if *tc.BreakMinutes < 0 {
			return out, fmt.Errorf("break_minutes must be >= 0")
		}
		out.BreakMinutes = *tc.BreakMinutes
	}
	mode, err := timecalc.ParseRoundMode(tc.RoundMode)
	if err != nil {
		return out, err
	}
	out.RoundMode = mode
	return out, nil
}

func (c *Config) UTCOffsetMinutes() int {
	if c.Site.UTCOffsetMinutes == nil {
		return DefaultUTCOffsetMins
	}
	return *c.Site.UTCOffsetMinutes
}

func Connect(c DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.DBName)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("接続準備に失敗: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB接続に失敗: %w", err)
	}

	// 帳票の集計は短時間に読み取りが集中するので idle を厚めに残す
	db.SetMaxOpenConns(40)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
