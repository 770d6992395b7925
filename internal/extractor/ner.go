package extractor

import (
	"strings"
	"unicode"
)

// PersonRecognizer 人名识别能力的抽象。
// 核心不绑定任何具体的NER引擎：默认实现是纯规则的，接入真正的NER服务时替换该接口即可。
type PersonRecognizer interface {
	// RecognizePerson 在文本中寻找第一个人名，找不到时返回 ("", false)。
	RecognizePerson(text string) (string, bool)
}

// headingWords 简历标题/栏目常用词，首字母大写但显然不是人名。
var headingWords = map[string]struct{}{
	"resume": {}, "curriculum": {}, "vitae": {}, "contact": {}, "email": {},
	"phone": {}, "mobile": {}, "address": {}, "skills": {}, "education": {},
	"experience": {}, "objective": {}, "summary": {}, "profile": {},
	"projects": {}, "university": {}, "college": {}, "institute": {},
}

// CapitalizedRunRecognizer 基于规则的默认人名识别器：
// 取第一段连续 2~4 个首字母大写、且都不是栏目词的纯字母词。
// 对排版规整的英文简历足够用，精度要求更高时换成真正的NER实现。
type CapitalizedRunRecognizer struct{}

// NewCapitalizedRunRecognizer 创建默认人名识别器。
func NewCapitalizedRunRecognizer() *CapitalizedRunRecognizer {
	return &CapitalizedRunRecognizer{}
}

// RecognizePerson 实现 PersonRecognizer 接口。
func (r *CapitalizedRunRecognizer) RecognizePerson(text string) (string, bool) {
	words := strings.Fields(text)
	var run []string

	flush := func() (string, bool) {
		if len(run) >= 2 && len(run) <= 4 {
			return strings.Join(run, " "), true
		}
		return "", false
	}

	for _, word := range words {
		trimmed := strings.Trim(word, ".,;:()[]")
		if looksLikeNameWord(trimmed) {
			run = append(run, trimmed)
			if len(run) == 4 {
				// 足够长的一段，直接收下
				return flush()
			}
			continue
		}
		if name, ok := flush(); ok {
			return name, true
		}
		run = run[:0]
	}
	return flush()
}

// looksLikeNameWord 判断单词是否可能是人名的一部分：纯字母、首字母大写、非栏目词。
func looksLikeNameWord(word string) bool {
	if len(word) < 2 {
		return false
	}
	runes := []rune(word)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	_, heading := headingWords[strings.ToLower(word)]
	return !heading
}
