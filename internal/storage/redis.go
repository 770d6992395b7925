package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound 键不存在。对 redis.Nil 的别名，屏蔽底层库细节。
var ErrNotFound = redis.Nil

// Redis 封装 go-redis 客户端，为相似度引擎提供岗位向量缓存。
// 实现 matcher.VectorCache 接口。
type Redis struct {
	Client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisAdapter 创建 Redis 客户端连接。
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis 配置不能为空")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis 地址不能为空")
	}

	opt := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
	if cfg.DialTimeoutSeconds > 0 {
		opt.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		opt.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		opt.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	return &Redis{Client: client, cfg: cfg}, nil
}

// Ping 探活。
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// Close 关闭连接。
func (r *Redis) Close() error {
	return r.Client.Close()
}

// jobVectorPayload 缓存载荷：向量本体加上生成它的模型版本。
// 模型版本不匹配的缓存会被调用方判废，换模型后不需要手动清缓存。
type jobVectorPayload struct {
	Vector       []float64 `json:"vector"`
	ModelVersion string    `json:"model_version"`
}

// SetJobVector 缓存岗位向量，带统一TTL。
func (r *Redis) SetJobVector(ctx context.Context, key string, vector []float64, modelVersion string) error {
	if key == "" {
		return fmt.Errorf("缓存键不能为空")
	}
	payload, err := json.Marshal(jobVectorPayload{Vector: vector, ModelVersion: modelVersion})
	if err != nil {
		return fmt.Errorf("序列化岗位向量失败: %w", err)
	}
	return r.Client.Set(ctx, constants.JobVectorKeyPrefix+key, payload, constants.JobVectorTTL).Err()
}

// GetJobVector 读取岗位向量及其模型版本。键不存在时返回 ErrNotFound。
func (r *Redis) GetJobVector(ctx context.Context, key string) ([]float64, string, error) {
	raw, err := r.Client.Get(ctx, constants.JobVectorKeyPrefix+key).Result()
	if err != nil {
		return nil, "", err
	}
	var payload jobVectorPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, "", fmt.Errorf("解析岗位向量缓存失败: %w", err)
	}
	return payload.Vector, payload.ModelVersion, nil
}
