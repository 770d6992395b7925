package matcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"resume-match-go/internal/extractor"
	"resume-match-go/internal/types"
)

// Ranker 排序编排器，一次请求的完整流水线：
// 提取(每份简历) → 批量相似度 → 得分融合(每位候选人) → 建议 → 按最终得分降序。
// 无终止性错误：单个字段提取失败降级为 NotFound，嵌入故障整批退化为技能分，
// 空批次直接返回空列表。
type Ranker struct {
	extractor  *extractor.FieldExtractor
	similarity *SimilarityEngine
	blender    *ScoreBlender
	suggester  *SuggestionGenerator
	logger     *log.Logger
}

// RankerOption Ranker 的配置选项。
type RankerOption func(*Ranker)

// WithRankerLogger 设置日志记录器。
func WithRankerLogger(logger *log.Logger) RankerOption {
	return func(r *Ranker) {
		r.logger = logger
	}
}

// NewRanker 创建排序编排器，四个协作组件均不可为空。
func NewRanker(
	fieldExtractor *extractor.FieldExtractor,
	similarity *SimilarityEngine,
	blender *ScoreBlender,
	suggester *SuggestionGenerator,
	options ...RankerOption,
) (*Ranker, error) {
	if fieldExtractor == nil {
		return nil, fmt.Errorf("FieldExtractor 不能为空")
	}
	if similarity == nil {
		return nil, fmt.Errorf("SimilarityEngine 不能为空")
	}
	if blender == nil {
		return nil, fmt.Errorf("ScoreBlender 不能为空")
	}
	if suggester == nil {
		return nil, fmt.Errorf("SuggestionGenerator 不能为空")
	}

	r := &Ranker{
		extractor:  fieldExtractor,
		similarity: similarity,
		blender:    blender,
		suggester:  suggester,
		logger:     log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(r)
	}
	return r, nil
}

// Rank 对一批简历按岗位匹配度排序。
// 返回值按最终得分降序，得分相同的保持输入顺序（稳定排序），
// 每个结果的 CandidateIndex 指回输入批次，调用方据此对齐原始文本。
func (r *Ranker) Rank(ctx context.Context, jobText string, resumeTexts []string) []types.MatchResult {
	if len(resumeTexts) == 0 {
		return []types.MatchResult{}
	}

	// 字段提取只读取各自的简历文本和共享只读词表，按简历并发执行，无须加锁
	profiles := make([]types.ResumeProfile, len(resumeTexts))
	var wg sync.WaitGroup
	for i := range resumeTexts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			profiles[i] = r.extractor.Extract(resumeTexts[i])
		}(i)
	}
	wg.Wait()

	rawScores := r.similarity.Scores(ctx, jobText, resumeTexts)
	jobSkills := r.blender.JobSkills(jobText)

	results := make([]types.MatchResult, len(resumeTexts))
	for i := range resumeTexts {
		results[i] = types.MatchResult{
			CandidateIndex: i,
			Profile:        profiles[i],
			FinalScore:     r.blender.Blend(rawScores[i], profiles[i].Skills, jobSkills),
			Suggestions:    r.suggester.suggest(jobSkills, resumeTexts[i], profiles[i].Skills),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	r.logger.Printf("排序完成: 候选人=%d 岗位技能=%d", len(results), len(jobSkills))
	return results
}

// Extract 暴露给外层的单简历提取入口。
func (r *Ranker) Extract(resumeText string) types.ResumeProfile {
	return r.extractor.Extract(resumeText)
}

// Suggest 暴露给外层的单简历建议入口。
func (r *Ranker) Suggest(jobText, resumeText string, resumeSkills []string) []string {
	return r.suggester.Suggest(jobText, resumeText, resumeSkills)
}
