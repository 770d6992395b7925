package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置。
type Config struct {
	// 阿里云嵌入服务配置
	Aliyun AliyunConfig `yaml:"aliyun"`

	// Redis配置（岗位向量缓存；Address为空则禁用缓存）
	Redis RedisConfig `yaml:"redis"`

	// 匹配引擎配置
	Matcher MatcherConfig `yaml:"matcher"`

	// 技能词表配置
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`

	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`
}

// AliyunConfig 阿里云兼容端点配置。
type AliyunConfig struct {
	APIKey    string          `yaml:"api_key"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// EmbeddingConfig Embedding 专用配置。
type EmbeddingConfig struct {
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	BaseURL    string `yaml:"base_url"`
}

// RedisConfig Redis 连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// 连接池设置
	PoolSize     int `yaml:"pool_size"`      // 连接池大小
	MinIdleConns int `yaml:"min_idle_conns"` // 最小空闲连接数
	// 超时设置
	DialTimeoutSeconds  int `yaml:"dial_timeout_seconds"`  // 连接超时(秒)
	ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`  // 读取超时(秒)
	WriteTimeoutSeconds int `yaml:"write_timeout_seconds"` // 写入超时(秒)
}

// MatcherConfig 匹配引擎配置。
type MatcherConfig struct {
	EmbedTimeoutSeconds int `yaml:"embed_timeout_seconds"` // 批量嵌入调用超时(秒)
}

// TaxonomyConfig 技能词表配置。ExtraSkills 追加到内置词表末尾。
type TaxonomyConfig struct {
	ExtraSkills []string `yaml:"extra_skills"`
}

// ServerConfig 定义服务器配置。
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080"
}

// LoggerConfig 日志配置。
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json 或 pretty
	TimeFormat   string `yaml:"time_format"`   // 时间戳格式
	ReportCaller bool   `yaml:"report_caller"` // 是否记录调用位置
}

// LoadConfig 加载配置：先读文件（不存在时用默认值），再应用环境变量覆盖。
// 支持的环境变量：ALIYUN_API_KEY, REDIS_ADDRESS, SERVER_ADDRESS。
func LoadConfig(configPath string) (*Config, error) {
	cfg := createDefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("解析配置文件 %s 失败: %w", configPath, err)
			}
		case os.IsNotExist(err):
			// 没有配置文件不是错误，按默认值运行
		default:
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", configPath, err)
		}
	}

	if v := os.Getenv("ALIYUN_API_KEY"); v != "" {
		cfg.Aliyun.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		cfg.Redis.Address = v
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}

	return cfg, nil
}

// createDefaultConfig 返回可直接运行的默认配置。
func createDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Aliyun.Embedding = EmbeddingConfig{
		Model:      "text-embedding-v3",
		Dimensions: 1024,
		BaseURL:    "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings",
	}
	cfg.Redis = RedisConfig{
		DB:                  0,
		PoolSize:            10,
		MinIdleConns:        2,
		DialTimeoutSeconds:  5,
		ReadTimeoutSeconds:  3,
		WriteTimeoutSeconds: 3,
	}
	cfg.Matcher = MatcherConfig{EmbedTimeoutSeconds: 30}
	cfg.Server = ServerConfig{Address: ":8080"}
	cfg.Logger = LoggerConfig{
		Level:      "info",
		Format:     "pretty",
		TimeFormat: time.RFC3339,
	}
	return cfg
}

// CreateSampleConfig 在指定路径写出一份带默认值的示例配置。
func CreateSampleConfig(filePath string) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录失败: %w", err)
		}
	}
	data, err := yaml.Marshal(createDefaultConfig())
	if err != nil {
		return fmt.Errorf("序列化示例配置失败: %w", err)
	}
	return os.WriteFile(filePath, data, 0o644)
}

// EmbedTimeout 返回批量嵌入调用的超时时长。
func (c *Config) EmbedTimeout() time.Duration {
	if c.Matcher.EmbedTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Matcher.EmbedTimeoutSeconds) * time.Second
}
