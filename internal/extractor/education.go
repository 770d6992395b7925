package extractor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"resume-match-go/internal/types"
)

// degreePattern 学位模式表的一项。
type degreePattern struct {
	pattern *regexp.Regexp
	label   string
	level   int
}

// degreePatterns 学位模式表。顺序即优先级，首个命中者生效，
// 模式之间按设计互斥：PhD > Master/MS/MCA/MBA > Bachelor > Diploma > 高中 > 初中。
var degreePatterns = []degreePattern{
	{regexp.MustCompile(`(?i)\bph\.?d\b|\bdoctorate\b`), "PhD", 7},
	{regexp.MustCompile(`(?i)\bm\.?tech\b|\bmtech\b|\bmaster\b|\bm\.?s\b|\bms\b|\bm\.?sc\b|\bmsc\b`), "Master", 6},
	{regexp.MustCompile(`(?i)\bmca\b`), "MCA", 6},
	{regexp.MustCompile(`(?i)\bmba\b`), "MBA", 6},
	{regexp.MustCompile(`(?i)\bb\.?tech\b|\bbtech\b|\bb\.?e\b|\bbe\b|\bbachelor\b|\bb\.?sc\b|\bbsc\b`), "Bachelor", 5},
	{regexp.MustCompile(`(?i)\bdiploma\b`), "Diploma", 4},
	{regexp.MustCompile(`(?i)\b12th\b|\bhigher secondary\b|\bsenior secondary\b`), "Higher Secondary", 2},
	{regexp.MustCompile(`(?i)\b10th\b|\bsecondary\b`), "Secondary", 1},
}

var (
	// institutionKeywordPattern 院校类型关键词，含印度常见院校缩写
	institutionKeywordPattern = regexp.MustCompile(`(?i)\b(university|college|institute|school|academy|iit|nit|iiit|iim|bits)\b`)
	// institutionPhrasePattern 带院校关键词的完整短语
	institutionPhrasePattern = regexp.MustCompile(`(?i)[A-Za-z0-9 &.\-]+(?:University|College|Institute|School|Academy|IIT|NIT|IIIT|IIM|BITS|VIT|PES|SRM|COEP)[A-Za-z0-9 &.\-]*`)
	// institutionAfterPattern 行内没有关键词时，取 at/from 之后逗号之前的文本
	institutionAfterPattern = regexp.MustCompile(`(?i)(?:at|from)\s+([A-Za-z0-9 &.\-]+)`)

	// fieldOfStudyPattern 专业方向："in/of <文本>"，在逗号/括号/at/from/- 处截断
	fieldOfStudyPattern = regexp.MustCompile(`(?i)(?:in|of)\s+([A-Za-z0-9 &.\-+]+?)(?:,|\(| at | from | - |$)`)

	// yearPattern 1900~2099 的4位年份
	yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	// yearRangePattern YYYY-YYYY 年份区间（连字符/各式破折号均可）
	yearRangePattern = regexp.MustCompile(`\b(?:19|20)\d{2}\s*[-–—]\s*(?:19|20)\d{2}\b`)
)

// ExtractEducation 解析最能代表该简历的一条教育经历，格式为
// "<学位> in <专业> at <院校> (<起始>–<结束>)"，缺失的片段直接省略。
// 全文没有任何候选行时返回 false。
func (e *FieldExtractor) ExtractEducation(resumeText string) (string, bool) {
	candidates := collectEducationCandidates(resumeText)
	if len(candidates) == 0 {
		return "", false
	}

	best := selectBestCandidate(candidates)
	formatted := formatEducation(best)
	if formatted == "" {
		return "", false
	}
	return formatted, true
}

// collectEducationCandidates 逐行筛出教育相关的候选行并解析其属性。
// 一行只要命中学位模式、院校关键词、或包含年份三者之一即入选。
func collectEducationCandidates(resumeText string) []types.EducationCandidate {
	var candidates []types.EducationCandidate
	for idx, line := range nonEmptyLines(resumeText) {
		if !matchesAnyDegree(line) &&
			!institutionKeywordPattern.MatchString(line) &&
			!yearPattern.MatchString(line) {
			continue
		}
		candidates = append(candidates, parseEducationLine(cleanLine(line), idx))
	}
	return candidates
}

func matchesAnyDegree(line string) bool {
	for _, d := range degreePatterns {
		if d.pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// parseEducationLine 解析单行候选的学位、专业、院校与年份。
func parseEducationLine(line string, idx int) types.EducationCandidate {
	cand := types.EducationCandidate{Line: line, LineIndex: idx}

	for _, d := range degreePatterns {
		if d.pattern.MatchString(line) {
			cand.DegreeLabel = d.label
			cand.DegreeLevel = d.level
			break
		}
	}

	if m := fieldOfStudyPattern.FindStringSubmatch(line); m != nil {
		cand.Field = cleanLine(m[1])
	}

	if m := institutionPhrasePattern.FindString(line); m != "" {
		cand.Institution = cleanLine(m)
	} else if m := institutionAfterPattern.FindStringSubmatch(line); m != nil {
		cand.Institution = cleanLine(strings.SplitN(m[1], ",", 2)[0])
	}

	cand.StartYear, cand.EndYear = findYears(line)
	return cand
}

// findYears 提取年份：优先识别 YYYY–YYYY 区间；没有区间时把行内最后一个年份当作结束年。
func findYears(line string) (startYear, endYear int) {
	if rangeMatch := yearRangePattern.FindString(line); rangeMatch != "" {
		years := yearPattern.FindAllString(rangeMatch, -1)
		if len(years) >= 2 {
			startYear, _ = strconv.Atoi(years[0])
			endYear, _ = strconv.Atoi(years[1])
			return startYear, endYear
		}
	}
	years := yearPattern.FindAllString(line, -1)
	if len(years) > 0 {
		endYear, _ = strconv.Atoi(years[len(years)-1])
	}
	return 0, endYear
}

// selectBestCandidate 在所有候选行中选出最佳：
// 学位级别降序 → 结束年份降序 → 行号升序（越靠前的行越显眼，平手时优先）。
func selectBestCandidate(candidates []types.EducationCandidate) types.EducationCandidate {
	sorted := make([]types.EducationCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.DegreeLevel != b.DegreeLevel {
			return a.DegreeLevel > b.DegreeLevel
		}
		if a.EndYear != b.EndYear {
			return a.EndYear > b.EndYear
		}
		return a.LineIndex < b.LineIndex
	})
	return sorted[0]
}

// formatEducation 拼装展示文本，省略缺失片段；
// 专业若与"university/college"撞词说明抓到了院校名，也一并省略。
func formatEducation(c types.EducationCandidate) string {
	var parts []string
	if c.DegreeLabel != "" {
		parts = append(parts, c.DegreeLabel)
	}
	if c.Field != "" {
		lowerField := strings.ToLower(c.Field)
		if !strings.Contains(lowerField, "university") && !strings.Contains(lowerField, "college") {
			parts = append(parts, "in "+c.Field)
		}
	}
	if c.Institution != "" {
		parts = append(parts, "at "+c.Institution)
	}
	switch {
	case c.StartYear != 0 && c.EndYear != 0:
		parts = append(parts, fmt.Sprintf("(%d–%d)", c.StartYear, c.EndYear))
	case c.EndYear != 0:
		parts = append(parts, fmt.Sprintf("(%d)", c.EndYear))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
