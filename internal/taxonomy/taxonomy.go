package taxonomy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// FuzzyThreshold 模糊匹配的相似度阈值。
// 0.75 是经验值：再放宽就会在短词上产生误报，调整前先跑 taxonomy 的回归测试。
const FuzzyThreshold = 0.75

// fuzzyMinLength 参与模糊匹配的词的最小长度，过短的词没有区分度。
const fuzzyMinLength = 3

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize 把文本归一化为词表比较用的形式：小写，非字母数字一律折叠成单个空格。
func Normalize(s string) string {
	return strings.TrimSpace(nonAlnumPattern.ReplaceAllString(strings.ToLower(s), " "))
}

// Entry 词表条目：规范技能名及其归一化形式。
type Entry struct {
	Name       string   // 规范拼写，例如 "Machine Learning"，重合度计算以它为键
	normalized string   // 归一化后的整体形式，例如 "machine learning"
	tokens     []string // 归一化后的分词
}

// NewEntry 由规范技能名构造词表条目。
func NewEntry(name string) Entry {
	normalized := Normalize(name)
	return Entry{
		Name:       name,
		normalized: normalized,
		tokens:     strings.Fields(normalized),
	}
}

// Taxonomy 静态技能词表。进程启动时构建一次，之后只读，可被任意多个提取器共享。
type Taxonomy struct {
	entries []Entry
}

// New 按插入顺序构建词表，按规范名去重。
func New(names ...string) *Taxonomy {
	seen := make(map[string]struct{}, len(names))
	t := &Taxonomy{entries: make([]Entry, 0, len(names))}
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		t.entries = append(t.entries, NewEntry(name))
	}
	return t
}

// defaultSkills 内置技能库。顺序即词表顺序，新增技能往末尾加。
var defaultSkills = []string{
	"Python", "Java", "C++", "C", "SQL", "MongoDB", "PostgreSQL",
	"JavaScript", "Node.js", "Express.js", "React", "HTML", "CSS",
	"Flask", "Django", "Machine Learning", "Deep Learning", "Data Analysis",
	"AWS", "Azure", "GCP", "Git", "Excel", "Power BI", "Tableau",
	"TensorFlow", "PyTorch", "NLP", "Data Visualization", "Leadership",
	"Communication", "Problem Solving", "Teamwork", "Docker", "Kubernetes",
}

// Default 返回内置技能词表。
func Default() *Taxonomy {
	return New(defaultSkills...)
}

// Len 返回词表条目数。
func (t *Taxonomy) Len() int {
	return len(t.entries)
}

// Names 返回全部规范技能名（词表顺序）。
func (t *Taxonomy) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Match 在文本中查找词表技能，按条目逐个尝试三段由紧到松的策略，命中即止：
//  1. 原文大小写不敏感的子串匹配；
//  2. 词集匹配：技能的每个归一化词都出现在文本词集中（与词序无关）；
//  3. 模糊匹配：任一文本词与技能归一化形式的相似度超过 FuzzyThreshold。
//
// 返回去重后按字典序排序的规范技能名，保证同一文本两次调用结果一致。
func (t *Taxonomy) Match(text string) []string {
	return t.match(text, true)
}

// MatchStrict 与 Match 相同但不做模糊匹配，用于岗位描述这类措辞正式的文本。
func (t *Taxonomy) MatchStrict(text string) []string {
	return t.match(text, false)
}

func (t *Taxonomy) match(text string, fuzzy bool) []string {
	lower := strings.ToLower(text)
	tokens := strings.Fields(Normalize(text))
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
	}

	found := make([]string, 0, 8)
	for _, e := range t.entries {
		if strings.Contains(lower, strings.ToLower(e.Name)) {
			found = append(found, e.Name)
			continue
		}
		if containsAllTokens(tokenSet, e.tokens) {
			found = append(found, e.Name)
			continue
		}
		if fuzzy && fuzzyHit(tokenSet, e.normalized) {
			found = append(found, e.Name)
		}
	}
	sort.Strings(found)
	return found
}

// containsAllTokens 判断技能的每个词是否都出现在文本词集中。
func containsAllTokens(tokenSet map[string]struct{}, skillTokens []string) bool {
	if len(skillTokens) == 0 {
		return false
	}
	for _, tok := range skillTokens {
		if _, ok := tokenSet[tok]; !ok {
			return false
		}
	}
	return true
}

// fuzzyHit 判断文本中是否有词与技能归一化形式足够相似（容忍轻微的OCR/拼写噪声）。
func fuzzyHit(tokenSet map[string]struct{}, normalizedSkill string) bool {
	if len(normalizedSkill) < fuzzyMinLength {
		return false
	}
	for tok := range tokenSet {
		if len(tok) < fuzzyMinLength {
			continue
		}
		if SimilarityRatio(tok, normalizedSkill) > FuzzyThreshold {
			return true
		}
	}
	return false
}

// SimilarityRatio 计算两个字符串的对称相似度（0~1），与 Python difflib 的 ratio 同义。
func SimilarityRatio(a, b string) float64 {
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}
