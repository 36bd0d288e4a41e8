package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/riskmanagement123/loansim"
	"github.com/riskmanagement123/loansim/internal/calendar"
)

// Config holds application configuration
type Config struct {
	Log      LogConfig      `toml:"log" yaml:"log"`
	Engine   EngineConfig   `toml:"engine" yaml:"engine"`
	CSV      CSVConfig      `toml:"csv" yaml:"csv"`
	Calendar CalendarConfig `toml:"calendar" yaml:"calendar"`
	HTTP     HTTPConfig     `toml:"http" yaml:"http"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // json | text
}

type EngineConfig struct {
	MaxAnnualRate   string `toml:"max_annual_rate" yaml:"max_annual_rate"` // "" 或 "0" 不限制
	DefaultLoanType string `toml:"default_loan_type" yaml:"default_loan_type"`
	DefaultStrategy string `toml:"default_strategy" yaml:"default_strategy"`
}

type CSVConfig struct {
	Delimiter       string `toml:"delimiter" yaml:"delimiter"`               // 输入
	ExportDelimiter string `toml:"export_delimiter" yaml:"export_delimiter"` // 导出
}

type CalendarConfig struct {
	Roll        string `toml:"roll" yaml:"roll"`
	HolidaysURL string `toml:"holidays_url" yaml:"holidays_url"`
}

type HTTPConfig struct {
	Addr          string        `toml:"addr" yaml:"addr"`
	ReadTimeout   time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout  time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxBodyBytes  int64         `toml:"max_body_bytes" yaml:"max_body_bytes"`
	RateBurst     int           `toml:"rate_burst" yaml:"rate_burst"`
	RatePerSecond int           `toml:"rate_per_second" yaml:"rate_per_second"`
	TrustProxy    bool          `toml:"trust_proxy" yaml:"trust_proxy"` // 仅在可信反向代理之后开启
}

// Default 无配置文件时的默认值
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Engine: EngineConfig{DefaultLoanType: string(loansim.LoanEqualInstallments), DefaultStrategy: string(loansim.StrategyReduceTerm)},
		CSV:    CSVConfig{Delimiter: ",", ExportDelimiter: ";"},
		Calendar: CalendarConfig{
			Roll: string(calendar.Unadjusted),
		},
		HTTP: HTTPConfig{
			Addr:          ":8080",
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			MaxBodyBytes:  1 << 20,
			RateBurst:     20,
			RatePerSecond: 10,
		},
	}
}

// Load 读取 TOML/YAML（按扩展名），再用 LOANSIM_* 环境变量覆盖。path 为空时只用默认值和环境变量。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse toml config: %w", err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse yaml config: %w", err)
			}
		default:
			return nil, fmt.Errorf("unsupported config format %q", ext)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Log.Level = getEnv("LOANSIM_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOANSIM_LOG_FORMAT", c.Log.Format)
	c.Engine.MaxAnnualRate = getEnv("LOANSIM_MAX_ANNUAL_RATE", c.Engine.MaxAnnualRate)
	c.Engine.DefaultLoanType = getEnv("LOANSIM_DEFAULT_LOAN_TYPE", c.Engine.DefaultLoanType)
	c.Engine.DefaultStrategy = getEnv("LOANSIM_DEFAULT_STRATEGY", c.Engine.DefaultStrategy)
	c.Calendar.Roll = getEnv("LOANSIM_CALENDAR_ROLL", c.Calendar.Roll)
	c.Calendar.HolidaysURL = getEnv("LOANSIM_HOLIDAYS_URL", c.Calendar.HolidaysURL)
	c.HTTP.Addr = getEnv("LOANSIM_HTTP_ADDR", c.HTTP.Addr)
	if v, ok := os.LookupEnv("LOANSIM_HTTP_RATE_PER_SECOND"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOANSIM_HTTP_RATE_PER_SECOND: %w", err)
		}
		c.HTTP.RatePerSecond = n
	}
	if v, ok := os.LookupEnv("LOANSIM_HTTP_TRUST_PROXY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOANSIM_HTTP_TRUST_PROXY: %w", err)
		}
		c.HTTP.TrustProxy = b
	}
	if v, ok := os.LookupEnv("LOANSIM_HTTP_RATE_BURST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOANSIM_HTTP_RATE_BURST: %w", err)
		}
		c.HTTP.RateBurst = n
	}
	return nil
}

// Validate 检查枚举和数值范围
func (c *Config) Validate() error {
	if _, err := c.MaxAnnualRate(); err != nil {
		return err
	}
	if _, err := loansim.ParseLoanType(c.Engine.DefaultLoanType); err != nil {
		return fmt.Errorf("engine.default_loan_type: %w", err)
	}
	if _, err := loansim.ParseStrategy(c.Engine.DefaultStrategy); err != nil {
		return fmt.Errorf("engine.default_strategy: %w", err)
	}
	if _, err := calendar.ParseRollConvention(c.Calendar.Roll); err != nil {
		return fmt.Errorf("calendar.roll: %w", err)
	}
	if _, err := delimiterRune(c.CSV.Delimiter); err != nil {
		return fmt.Errorf("csv.delimiter: %w", err)
	}
	if _, err := delimiterRune(c.CSV.ExportDelimiter); err != nil {
		return fmt.Errorf("csv.export_delimiter: %w", err)
	}
	if c.HTTP.RateBurst < 0 || c.HTTP.RatePerSecond < 0 || c.HTTP.MaxBodyBytes < 0 {
		return fmt.Errorf("http limits must not be negative")
	}
	return nil
}

// MaxAnnualRate 解析利率上限，零值表示不限制
func (c *Config) MaxAnnualRate() (decimal.Decimal, error) {
	s := strings.TrimSpace(c.Engine.MaxAnnualRate)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("engine.max_annual_rate: invalid value %q", s)
	}
	return d, nil
}

// EngineOptions 转成 loansim.Config
func (c *Config) EngineOptions() (loansim.Config, error) {
	limit, err := c.MaxAnnualRate()
	if err != nil {
		return loansim.Config{}, err
	}
	return loansim.Config{MaxAnnualRate: limit}, nil
}

func (c *Config) InputDelimiter() rune {
	r, _ := delimiterRune(c.CSV.Delimiter)
	return r
}

func (c *Config) ExportDelimiter() rune {
	r, _ := delimiterRune(c.CSV.ExportDelimiter)
	return r
}

func delimiterRune(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	rs := []rune(s)
	if len(rs) != 1 || rs[0] == '"' || rs[0] == '\n' || rs[0] == '\r' {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return rs[0], nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
