package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// Config 保存 packtrans 的所有配置
type Config struct {
	SourceLang string `mapstructure:"source_lang"` // 文档中源语言的键
	TargetLang string `mapstructure:"target_lang"` // 文档中目标语言的键

	// 词典配置
	Dictionaries        []string `mapstructure:"dictionaries"`         // 额外的词典片段，按顺序注册
	BuiltinDictionaries bool     `mapstructure:"builtin_dictionaries"` // 是否先注册内置词典
	KeepExisting        bool     `mapstructure:"keep_existing"`        // 未命中时保留已有译文

	Debug    bool   `mapstructure:"debug"`
	Verbose  bool   `mapstructure:"verbose"`   // 详细模式，列出每个字段的结果
	LogLevel string `mapstructure:"log_level"` // 日志级别，为空时由 debug/verbose 决定

	// 运行记录
	RecordStats bool   `mapstructure:"record_stats"`
	StatsPath   string `mapstructure:"stats_path"`
	RecentLimit int    `mapstructure:"recent_limit"` // stats 命令默认显示的记录数

	SuggestDistance int `mapstructure:"suggest_distance"` // check 命令近似键的最大编辑距离

	// ConfigFile 是实际读取的配置文件，未读取时为空
	ConfigFile string `mapstructure:"-"`
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 查找家目录中的配置文件
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		// 添加可能的配置文件路径
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".packtrans")
		v.SetConfigType("yaml")
	}

	// 读取环境变量
	v.AutomaticEnv()
	v.SetEnvPrefix("PACKTRANS")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果找不到配置文件，则使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()

	if config.StatsPath == "" {
		config.StatsPath = getDefaultStatsPath()
	}

	return &config, nil
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		SourceLang:          "en",
		TargetLang:          "zh",
		BuiltinDictionaries: true,
		KeepExisting:        false,
		Debug:               false,
		Verbose:             false,
		LogLevel:            "",
		RecordStats:         true,
		StatsPath:           getDefaultStatsPath(),
		RecentLimit:         10,
		SuggestDistance:     8,
	}
}

// Validate 检查语言标签与数值范围
func (c *Config) Validate() error {
	for _, lang := range []struct{ name, tag string }{
		{"source_lang", c.SourceLang},
		{"target_lang", c.TargetLang},
	} {
		name, tag := lang.name, lang.tag
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("%s must be specified", name)
		}
		if _, err := language.Parse(tag); err != nil {
			return fmt.Errorf("%s %q is not a valid language tag: %w", name, tag, err)
		}
	}
	if c.SourceLang == c.TargetLang {
		return fmt.Errorf("source_lang and target_lang must differ, both are %q", c.SourceLang)
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}
	if c.SuggestDistance < 0 {
		return fmt.Errorf("suggest_distance must not be negative")
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("recent_limit must be positive")
	}
	return nil
}

// DictionaryPaths 返回词典路径，相对路径以配置文件所在目录为基准
func (c *Config) DictionaryPaths() []string {
	base := ""
	if c.ConfigFile != "" {
		base = filepath.Dir(c.ConfigFile)
	}
	paths := make([]string, 0, len(c.Dictionaries))
	for _, p := range c.Dictionaries {
		if p == "" {
			continue
		}
		if base != "" && !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		paths = append(paths, p)
	}
	return paths
}

// getDefaultStatsPath 获取默认运行记录路径
func getDefaultStatsPath() string {
	// 优先使用系统缓存目录
	cacheDir, err := os.UserCacheDir()
	if err == nil {
		return filepath.Join(cacheDir, "packtrans", "stats.json")
	}

	// 如果无法获取系统缓存目录，使用用户主目录
	homeDir, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(homeDir, ".packtrans", "stats.json")
	}

	// 最后的兜底方案
	return "./packtrans-stats.json"
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("source_lang", d.SourceLang)
	v.SetDefault("target_lang", d.TargetLang)
	v.SetDefault("dictionaries", []string{})
	v.SetDefault("builtin_dictionaries", d.BuiltinDictionaries)
	v.SetDefault("keep_existing", d.KeepExisting)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("record_stats", d.RecordStats)
	v.SetDefault("stats_path", "")
	v.SetDefault("recent_limit", d.RecentLimit)
	v.SetDefault("suggest_distance", d.SuggestDistance)
}
