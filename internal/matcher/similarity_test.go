package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder 返回预置向量的嵌入器，按调用记录收到的文本批次。
type fakeEmbedder struct {
	vectorFor func(text string) []float64
	err       error
	calls     [][]string
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	f.calls = append(f.calls, texts)
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = f.vectorFor(text)
	}
	return vectors, nil
}

func (f *fakeEmbedder) GetDimensions() int { return 2 }

// fakeCache 内存版 VectorCache。
type fakeCache struct {
	vectors  map[string][]float64
	versions map[string]string
	getErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{vectors: map[string][]float64{}, versions: map[string]string{}}
}

func (c *fakeCache) GetJobVector(ctx context.Context, key string) ([]float64, string, error) {
	if c.getErr != nil {
		return nil, "", c.getErr
	}
	return c.vectors[key], c.versions[key], nil
}

func (c *fakeCache) SetJobVector(ctx context.Context, key string, vector []float64, modelVersion string) error {
	c.vectors[key] = vector
	c.versions[key] = modelVersion
	return nil
}

// axisEmbedder 岗位文本落在x轴，其余文本按内容区分方向。
func axisEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectorFor: func(text string) []float64 {
		switch text {
		case "job":
			return []float64{1, 0}
		case "same":
			return []float64{2, 0} // 与岗位同向，余弦为1
		case "orthogonal":
			return []float64{0, 1}
		case "opposite":
			return []float64{-1, 0}
		default:
			return []float64{1, 1}
		}
	}}
}

func TestNewSimilarityEngineRequiresEmbedder(t *testing.T) {
	_, err := NewSimilarityEngine(nil)
	assert.Error(t, err)
}

func TestScoresCosineAndClamp(t *testing.T) {
	engine, err := NewSimilarityEngine(axisEmbedder())
	require.NoError(t, err)

	scores := engine.Scores(context.Background(), "job", []string{"same", "orthogonal", "opposite"})
	require.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	assert.InDelta(t, 0.0, scores[1], 1e-9)
	// 负余弦归零而不是负分
	assert.InDelta(t, 0.0, scores[2], 1e-9)
}

func TestScoresEmptyBatch(t *testing.T) {
	embedder := axisEmbedder()
	engine, err := NewSimilarityEngine(embedder)
	require.NoError(t, err)

	scores := engine.Scores(context.Background(), "job", nil)
	assert.Empty(t, scores)
	// 空批次不应触发嵌入调用
	assert.Empty(t, embedder.calls)
}

// 嵌入后端出错时整批退化为0分，绝不返回错误。
func TestScoresDegradeOnEmbedderError(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("后端不可用")}
	engine, err := NewSimilarityEngine(embedder)
	require.NoError(t, err)

	scores := engine.Scores(context.Background(), "job", []string{"a", "b"})
	assert.Equal(t, []float64{0, 0}, scores)
}

// 返回形状与输入不符同样整批退化。
func TestScoresDegradeOnShapeMismatch(t *testing.T) {
	engine, err := NewSimilarityEngine(&countMismatchEmbedder{})
	require.NoError(t, err)

	scores := engine.Scores(context.Background(), "job", []string{"a", "b"})
	assert.Equal(t, []float64{0, 0}, scores)
}

// countMismatchEmbedder 永远只返回一个向量，模拟数量不符的后端。
type countMismatchEmbedder struct{}

func (c *countMismatchEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	return [][]float64{{1, 0}}, nil
}

func (c *countMismatchEmbedder) GetDimensions() int { return 2 }

// 首次调用写入岗位向量缓存，二次调用批量里不再包含岗位文本。
func TestScoresJobVectorCache(t *testing.T) {
	embedder := axisEmbedder()
	cache := newFakeCache()
	engine, err := NewSimilarityEngine(embedder, WithVectorCache(cache, "v3"))
	require.NoError(t, err)

	ctx := context.Background()
	first := engine.Scores(ctx, "job", []string{"same"})
	require.Len(t, embedder.calls, 1)
	assert.Equal(t, []string{"job", "same"}, embedder.calls[0])

	second := engine.Scores(ctx, "job", []string{"same"})
	require.Len(t, embedder.calls, 2)
	assert.Equal(t, []string{"same"}, embedder.calls[1])
	assert.Equal(t, first, second)
}

// 模型版本不匹配的缓存视为未命中，岗位文本重新进批。
func TestScoresCacheModelVersionMismatch(t *testing.T) {
	embedder := axisEmbedder()
	cache := newFakeCache()

	old, err := NewSimilarityEngine(embedder, WithVectorCache(cache, "v2"))
	require.NoError(t, err)
	old.Scores(context.Background(), "job", []string{"same"})

	current, err := NewSimilarityEngine(embedder, WithVectorCache(cache, "v3"))
	require.NoError(t, err)
	current.Scores(context.Background(), "job", []string{"same"})

	require.Len(t, embedder.calls, 2)
	assert.Equal(t, []string{"job", "same"}, embedder.calls[1])
}

// 缓存读取出错按未命中处理，不影响打分。
func TestScoresCacheErrorIgnored(t *testing.T) {
	embedder := axisEmbedder()
	cache := newFakeCache()
	cache.getErr = errors.New("连接断开")

	engine, err := NewSimilarityEngine(embedder, WithVectorCache(cache, "v3"))
	require.NoError(t, err)

	scores := engine.Scores(context.Background(), "job", []string{"same"})
	assert.InDelta(t, 1.0, scores[0], 1e-9)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	// 维度不一致或零向量都返回0
	assert.Zero(t, cosineSimilarity([]float64{1}, []float64{1, 0}))
	assert.Zero(t, cosineSimilarity([]float64{0, 0}, []float64{1, 0}))
	assert.Zero(t, cosineSimilarity(nil, nil))
}
