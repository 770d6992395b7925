package matcher

import (
	"fmt"
	"math"

	"resume-match-go/internal/taxonomy"
)

// 融合权重是文档化契约：任何重实现必须逐位复现这两个常数，
// 否则同一批简历会得到不同的排名。
const (
	// SimilarityWeight 语义相似度权重
	SimilarityWeight = 0.6
	// SkillWeight 技能重合度权重
	SkillWeight = 0.4
)

// ScoreBlender 把原始语义相似度与技能重合信号融合为最终得分。
type ScoreBlender struct {
	taxonomy *taxonomy.Taxonomy
}

// NewScoreBlender 创建得分融合器。
func NewScoreBlender(tax *taxonomy.Taxonomy) (*ScoreBlender, error) {
	if tax == nil {
		return nil, fmt.Errorf("技能词表不能为空")
	}
	return &ScoreBlender{taxonomy: tax}, nil
}

// JobSkills 提取岗位文本中提到的词表技能。
// 岗位描述措辞正式，只用精确与词集两种策略，不做模糊匹配以免引入误报。
func (b *ScoreBlender) JobSkills(jobText string) []string {
	return b.taxonomy.MatchStrict(jobText)
}

// Blend 计算最终得分：
//
//	final = clamp(0, 1, SimilarityWeight*rawSimilarity + SkillWeight*skillRatio)
//	skillRatio = |简历技能 ∩ 岗位技能| / max(1, |岗位技能|)
//
// 岗位没有提到任何词表技能时 skillRatio 为 0，得分完全由相似度决定。
func (b *ScoreBlender) Blend(rawSimilarity float64, resumeSkills, jobSkills []string) float64 {
	overlap := len(intersect(resumeSkills, jobSkills))
	skillRatio := float64(overlap) / math.Max(1, float64(len(jobSkills)))
	return clampUnit(SimilarityWeight*rawSimilarity + SkillWeight*skillRatio)
}

// intersect 两个技能集合的交集，保持第一个参数的顺序。
func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// subtract 返回 a 中不属于 b 的元素，保持 a 的顺序。
func subtract(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
