// Package config 加载控制台客户端配置。
// 优先级从低到高：配置文件 ~/.mtconsole/config.yaml → .env → 环境变量 → 命令行标志（由调用方覆盖）。
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 状态存储后端
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config 客户端配置
type Config struct {
	API   APIConfig   `yaml:"api"`
	State StateConfig `yaml:"state"`
	Log   LogConfig   `yaml:"log"`
	// Lang 通知语言 zh/en
	Lang string `yaml:"lang"`
	// Output 输出格式 json/text
	Output string `yaml:"-"`
}

// APIConfig 后端访问配置
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// TimeoutSeconds 普通调用超时(秒)
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// AskTimeoutSeconds 数据问答调用超时(秒)
	AskTimeoutSeconds int `yaml:"ask_timeout_seconds"`
}

// StateConfig 登录态存储配置
type StateConfig struct {
	Backend       string `yaml:"backend"`
	File          string `yaml:"file"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
	File        string `yaml:"file"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8080",
			TimeoutSeconds:    30,
			AskTimeoutSeconds: 240,
		},
		State: StateConfig{
			Backend: BackendFile,
			File:    defaultStateFile(),
		},
		Log: LogConfig{
			Level:       "error",
			Environment: "dev",
		},
		Lang:   "zh",
		Output: "text",
	}
}

// Load 依次读取配置文件、.env 与环境变量
// path 为空时使用 ~/.mtconsole/config.yaml，文件不存在不视为错误
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}

	// .env 不覆盖已存在的环境变量
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigPath 返回默认配置文件路径
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mtconsole", "config.yaml")
	}
	return filepath.Join(home, ".mtconsole", "config.yaml")
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mtconsole", "state.json")
	}
	return filepath.Join(home, ".mtconsole", "state.json")
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.API.BaseURL, "MT_API_BASE_URL")
	if err := setInt(&cfg.API.TimeoutSeconds, "MT_TIMEOUT"); err != nil {
		return err
	}
	if err := setInt(&cfg.API.AskTimeoutSeconds, "MT_ASK_TIMEOUT"); err != nil {
		return err
	}
	setString(&cfg.State.Backend, "MT_STATE_BACKEND")
	setString(&cfg.State.File, "MT_STATE_FILE")
	setString(&cfg.State.RedisAddr, "MT_REDIS_ADDR")
	setString(&cfg.State.RedisPassword, "MT_REDIS_PASSWORD")
	if err := setInt(&cfg.State.RedisDB, "MT_REDIS_DB"); err != nil {
		return err
	}
	setString(&cfg.State.RedisPrefix, "MT_REDIS_PREFIX")
	setString(&cfg.Lang, "MT_LANG")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Environment, "ENV")
	setString(&cfg.Log.File, "LOG_FILE")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds < 1 || c.API.TimeoutSeconds > 600 {
		return fmt.Errorf("invalid timeout: %d seconds (must be between 1-600)", c.API.TimeoutSeconds)
	}
	if c.API.AskTimeoutSeconds < 1 || c.API.AskTimeoutSeconds > 600 {
		return fmt.Errorf("invalid ask timeout: %d seconds (must be between 1-600)", c.API.AskTimeoutSeconds)
	}
	switch c.State.Backend {
	case BackendFile:
		if c.State.File == "" {
			return fmt.Errorf("state file is required for backend %q", BackendFile)
		}
	case BackendMemory:
	case BackendRedis:
		if c.State.RedisAddr == "" {
			return fmt.Errorf("redis addr is required for backend %q (MT_REDIS_ADDR)", BackendRedis)
		}
	default:
		return fmt.Errorf("invalid state backend: %s (must be file, memory or redis)", c.State.Backend)
	}
	if c.Output != "" && c.Output != "json" && c.Output != "text" {
		return fmt.Errorf("invalid output format: %s (must be json or text)", c.Output)
	}
	return nil
}

// Timeout 普通调用超时
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// AskTimeout 数据问答调用超时
func (a APIConfig) AskTimeout() time.Duration {
	return time.Duration(a.AskTimeoutSeconds) * time.Second
}
