package extractor

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"resume-match-go/internal/taxonomy"
	"resume-match-go/internal/types"
)

// 提取规则涉及的正则在包加载时编译一次。
// 所有模式对任意输入（空串、超长文本、非ASCII）整体求值，提取器绝不panic，
// 最坏结果是 NotFound 或空集合。
var (
	// emailPattern 宽松的 local@domain.tld：local 允许字母数字和 ._%+-，TLD 至少2个字母
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// phonePattern 偏国际格式的号码：可选+号、1~3位国家码、2~4位区号、两段3~5位号段
	phonePattern = regexp.MustCompile(`\+?\d{1,3}[\s\-]?\(?\d{2,4}\)?[\s\-]?\d{3,5}[\s\-]?\d{3,5}`)

	// 人名行的否定过滤：数字/@/网址片段说明是联系方式行
	nameRejectPattern = regexp.MustCompile(`(?i)[@\d]|www\.|http`)
	// 文档标题词，形似短词序列但不是人名
	nameTitlePattern = regexp.MustCompile(`(?i)\b(resume|curriculum vitae|cv)\b`)
	upperPattern     = regexp.MustCompile(`[A-Z]`)
)

const (
	nameScanLines = 6 // 规则式人名提取只看前6个非空行
	nerScanLines  = 8 // NER回退多看两行
)

// FieldExtractor 把一份简历的原始文本解析为结构化档案。
// 依赖只读的技能词表和可插拔的人名识别器，多个goroutine可并发共用同一实例。
type FieldExtractor struct {
	taxonomy   *taxonomy.Taxonomy
	recognizer PersonRecognizer
	logger     *log.Logger
}

// FieldExtractorOption FieldExtractor 的配置选项。
type FieldExtractorOption func(*FieldExtractor)

// WithPersonRecognizer 替换人名识别器实现。
func WithPersonRecognizer(recognizer PersonRecognizer) FieldExtractorOption {
	return func(e *FieldExtractor) {
		e.recognizer = recognizer
	}
}

// WithExtractorLogger 设置日志记录器。
func WithExtractorLogger(logger *log.Logger) FieldExtractorOption {
	return func(e *FieldExtractor) {
		e.logger = logger
	}
}

// NewFieldExtractor 创建字段提取器。
func NewFieldExtractor(tax *taxonomy.Taxonomy, options ...FieldExtractorOption) (*FieldExtractor, error) {
	if tax == nil {
		return nil, fmt.Errorf("技能词表不能为空")
	}
	e := &FieldExtractor{
		taxonomy:   tax,
		recognizer: NewCapitalizedRunRecognizer(),
		logger:     log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// Extract 提取完整档案。字段之间相互隔离：某个字段提取不到只会降级为 NotFound。
func (e *FieldExtractor) Extract(resumeText string) types.ResumeProfile {
	profile := types.ResumeProfile{
		Name:      orNotFound(e.ExtractName(resumeText)),
		Email:     orNotFound(e.ExtractEmail(resumeText)),
		Phone:     orNotFound(e.ExtractPhone(resumeText)),
		Skills:    e.ExtractSkills(resumeText),
		Education: orNotFound(e.ExtractEducation(resumeText)),
	}
	e.logger.Printf("提取完成: name=%q email=%q phone=%q skills=%d education=%q",
		profile.Name, profile.Email, profile.Phone, len(profile.Skills), profile.Education)
	return profile
}

// ExtractName 提取候选人姓名。
// 先用首行启发式：前6个非空行中，第一条"2~4个词、无数字无网址、含大写字母、
// 不是文档标题"的行即姓名。启发式落空时回退到人名识别器扫描前8行。
func (e *FieldExtractor) ExtractName(resumeText string) (string, bool) {
	lines := nonEmptyLines(resumeText)

	limit := min(nameScanLines, len(lines))
	for _, line := range lines[:limit] {
		words := len(strings.Fields(line))
		if words < 2 || words > 4 {
			continue
		}
		if nameRejectPattern.MatchString(line) {
			continue
		}
		if !upperPattern.MatchString(line) {
			continue
		}
		if nameTitlePattern.MatchString(line) {
			continue
		}
		return cleanLine(line), true
	}

	limit = min(nerScanLines, len(lines))
	if name, ok := e.recognizer.RecognizePerson(strings.Join(lines[:limit], " ")); ok {
		return cleanLine(name), true
	}
	return "", false
}

// ExtractEmail 返回文本中第一个邮箱地址。重复出现的地址不单独上报。
func (e *FieldExtractor) ExtractEmail(resumeText string) (string, bool) {
	match := emailPattern.FindString(resumeText)
	if match == "" {
		return "", false
	}
	return strings.TrimSpace(match), true
}

// ExtractPhone 返回文本中数字位数最多的号码，位数相同取先出现者。
// 这样完整书写的国际号码总能胜过教育行里 "2024" 这类数字碎片。
func (e *FieldExtractor) ExtractPhone(resumeText string) (string, bool) {
	matches := phonePattern.FindAllString(resumeText, -1)
	if len(matches) == 0 {
		return "", false
	}

	best := ""
	bestDigits := -1
	for _, m := range matches {
		if d := countDigits(m); d > bestDigits {
			best = strings.TrimSpace(m)
			bestDigits = d
		}
	}
	return best, true
}

// HasPhoneShape 判断文本中是否存在形似电话号码的片段（供建议生成使用）。
func HasPhoneShape(text string) bool {
	return phonePattern.MatchString(text)
}

// ExtractSkills 返回简历中命中的规范技能名集合（可能为空，已排序去重）。
func (e *FieldExtractor) ExtractSkills(resumeText string) []string {
	return e.taxonomy.Match(resumeText)
}

func orNotFound(value string, ok bool) string {
	if !ok || value == "" {
		return types.NotFound
	}
	return value
}

// nonEmptyLines 按行切分并去掉空白行，每行压缩首尾空白。
func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// cleanLine 把行内连续空白压缩为单个空格。
func cleanLine(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
