package matcher

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"
)

//
// 向量嵌入相关接口
//

// TextEmbedder 文本向量化接口 (符合 cloudwego/eino 规范)。
// 生产环境由阿里云兼容端点实现，测试里用固定向量的fake替换。
type TextEmbedder interface {
	// EmbedStrings 将一批文本转换为向量表示，输出与输入一一对应
	EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error)

	// GetDimensions 返回嵌入向量的维度
	GetDimensions() int
}

//
// 缓存相关接口
//

// VectorCache 岗位向量缓存接口。
// 实现失败（连接断开、键不存在等）只会让打分多付一次嵌入调用，绝不影响结果。
type VectorCache interface {
	// GetJobVector 取缓存向量，同时返回生成它的模型版本
	GetJobVector(ctx context.Context, key string) ([]float64, string, error)

	// SetJobVector 写入缓存向量及模型版本
	SetJobVector(ctx context.Context, key string, vector []float64, modelVersion string) error
}
