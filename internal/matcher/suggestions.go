package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"resume-match-go/internal/extractor"
	"resume-match-go/internal/taxonomy"
)

// durationPattern 工作时长表述，例如 "3 years"、"18 months"。
var durationPattern = regexp.MustCompile(`(?i)\b\d+\s*(years|year|months|month)\b`)

// 建议条目里技能列举的上限，避免把整个差集灌进一句话。
const (
	maxMissingSkillsShown = 3
	maxStrongSkillsShown  = 4
)

// SuggestionGenerator 对比岗位要求与候选人档案，产出面向差距的改进建议。
type SuggestionGenerator struct {
	taxonomy *taxonomy.Taxonomy
}

// NewSuggestionGenerator 创建建议生成器。
func NewSuggestionGenerator(tax *taxonomy.Taxonomy) (*SuggestionGenerator, error) {
	if tax == nil {
		return nil, fmt.Errorf("技能词表不能为空")
	}
	return &SuggestionGenerator{taxonomy: tax}, nil
}

// Suggest 为一份简历生成建议列表。
// 岗位技能从 jobText 即时提取；批量排序场景请走 Ranker，岗位技能只算一次。
func (g *SuggestionGenerator) Suggest(jobText, resumeText string, resumeSkills []string) []string {
	return g.suggest(g.taxonomy.MatchStrict(jobText), resumeText, resumeSkills)
}

// suggest 检查顺序固定：缺失技能 → 联系方式 → 时长表述 → 强匹配 → 兜底。
// 非互斥的条件全部触发，而不是只报第一条。
func (g *SuggestionGenerator) suggest(jobSkills []string, resumeText string, resumeSkills []string) []string {
	var suggestions []string

	if missing := subtract(jobSkills, resumeSkills); len(missing) > 0 {
		suggestions = append(suggestions,
			"Missing skills: "+strings.Join(headOf(missing, maxMissingSkillsShown), ", "))
	}

	var lacking []string
	if !strings.Contains(resumeText, "@") {
		lacking = append(lacking, "email")
	}
	if !extractor.HasPhoneShape(resumeText) {
		lacking = append(lacking, "phone number")
	}
	if len(lacking) > 0 {
		suggestions = append(suggestions, "Add contact info: "+strings.Join(lacking, ", "))
	}

	if !durationPattern.MatchString(resumeText) {
		suggestions = append(suggestions, "Clarify work experience duration.")
	}

	if overlap := intersect(resumeSkills, jobSkills); len(overlap) >= 3 {
		suggestions = append(suggestions,
			"Strong skills match: "+strings.Join(headOf(overlap, maxStrongSkillsShown), ", "))
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Resume is well-aligned with the job description.")
	}
	return suggestions
}

// headOf 取切片前 n 个元素。
func headOf(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
