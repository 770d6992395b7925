package matcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"math"
	"time"
)

// DefaultEmbedTimeout 单次批量嵌入调用的默认超时。
const DefaultEmbedTimeout = 30 * time.Second

// SimilarityEngine 计算岗位描述与一批简历之间的语义相似度。
// 嵌入是整条链路里唯一的重操作：岗位与全部简历合并成一次批量调用，
// 避免按简历逐个调用带来的 N 倍固定开销。
type SimilarityEngine struct {
	embedder     TextEmbedder
	cache        VectorCache // 可选，nil 表示不启用缓存
	modelVersion string      // 缓存条目的模型版本标识
	timeout      time.Duration
	logger       *log.Logger
}

// SimilarityOption SimilarityEngine 的配置选项。
type SimilarityOption func(*SimilarityEngine)

// WithEmbedTimeout 设置批量嵌入调用的超时。
func WithEmbedTimeout(timeout time.Duration) SimilarityOption {
	return func(s *SimilarityEngine) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithVectorCache 启用岗位向量缓存。modelVersion 用于在换模型后判废旧缓存。
func WithVectorCache(cache VectorCache, modelVersion string) SimilarityOption {
	return func(s *SimilarityEngine) {
		s.cache = cache
		s.modelVersion = modelVersion
	}
}

// WithSimilarityLogger 设置日志记录器。
func WithSimilarityLogger(logger *log.Logger) SimilarityOption {
	return func(s *SimilarityEngine) {
		s.logger = logger
	}
}

// NewSimilarityEngine 创建相似度引擎。
func NewSimilarityEngine(embedder TextEmbedder, options ...SimilarityOption) (*SimilarityEngine, error) {
	if embedder == nil {
		return nil, fmt.Errorf("TextEmbedder 不能为空")
	}
	s := &SimilarityEngine{
		embedder: embedder,
		timeout:  DefaultEmbedTimeout,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// Scores 计算每份简历相对岗位文本的原始相似度，结果与输入顺序对齐，取值 [0,1]。
// 嵌入后端不可用（出错、超时、返回形状不对）时整批退化为 0 分并记录日志——
// 排序绝不因嵌入故障硬失败，Score Blender 仍可凭技能重合度给出可用的排名。
func (s *SimilarityEngine) Scores(ctx context.Context, jobText string, resumeTexts []string) []float64 {
	scores := make([]float64, len(resumeTexts))
	if len(resumeTexts) == 0 {
		return scores
	}

	embedCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	jobVector := s.cachedJobVector(embedCtx, jobText)

	texts := resumeTexts
	if jobVector == nil {
		// 岗位向量未命中缓存，并入同一次批量调用
		texts = make([]string, 0, len(resumeTexts)+1)
		texts = append(texts, jobText)
		texts = append(texts, resumeTexts...)
	}

	vectors, err := s.embedder.EmbedStrings(embedCtx, texts)
	if err != nil {
		s.logger.Printf("批量嵌入失败，整批相似度退化为0: %v", err)
		return scores
	}

	if jobVector == nil {
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			s.logger.Printf("嵌入结果为空，整批相似度退化为0")
			return scores
		}
		jobVector = vectors[0]
		vectors = vectors[1:]
		s.storeJobVector(ctx, jobText, jobVector)
	}

	if len(vectors) != len(resumeTexts) {
		s.logger.Printf("嵌入结果数量不符 (期望 %d, 实际 %d)，整批相似度退化为0", len(resumeTexts), len(vectors))
		return scores
	}

	for i, vec := range vectors {
		scores[i] = clampUnit(cosineSimilarity(jobVector, vec))
	}
	return scores
}

// cachedJobVector 尝试命中岗位向量缓存，模型版本不匹配视为未命中。
func (s *SimilarityEngine) cachedJobVector(ctx context.Context, jobText string) []float64 {
	if s.cache == nil {
		return nil
	}
	key := jobVectorKey(jobText)
	vector, version, err := s.cache.GetJobVector(ctx, key)
	if err != nil || len(vector) == 0 {
		return nil
	}
	if version != s.modelVersion {
		s.logger.Printf("缓存的岗位向量模型版本不匹配 (缓存: %s, 当前: %s)，重新生成", version, s.modelVersion)
		return nil
	}
	return vector
}

// storeJobVector 异步语义的最佳努力写缓存，失败仅记录日志。
func (s *SimilarityEngine) storeJobVector(ctx context.Context, jobText string, vector []float64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJobVector(ctx, jobVectorKey(jobText), vector, s.modelVersion); err != nil {
		s.logger.Printf("写入岗位向量缓存失败: %v", err)
	}
}

// jobVectorKey 岗位文本的缓存键：内容摘要，避免把原文放进键名。
func jobVectorKey(jobText string) string {
	sum := sha256.Sum256([]byte(jobText))
	return hex.EncodeToString(sum[:])
}

// cosineSimilarity 余弦相似度。维度不一致或任一向量为零向量时返回 0。
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// clampUnit 截断到 [0,1]。负余弦（语义相反）在这里不是有意义的负信号，一律归零。
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
