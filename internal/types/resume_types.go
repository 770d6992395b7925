package types

// NotFound 字段无法确定时的哨兵值。
// 与空字符串严格区分：空串表示"从未填写"，NotFound 表示"提取过但没有结果"。
const NotFound = "Not Found"

// ResumeProfile 从单份简历文本中提取出的结构化档案。
// 各字段彼此独立提取，单个字段失败只会降级为 NotFound，不影响其他字段。
type ResumeProfile struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Skills    []string `json:"skills"`
	Education string   `json:"education"`
}

// EducationCandidate 教育经历候选行。
// 每个看起来与教育相关的简历行产生一条，最终只有一条会被选为该简历的教育摘要。
type EducationCandidate struct {
	Line        string // 原始行（已压缩空白）
	LineIndex   int    // 在非空行序列中的下标
	DegreeLabel string // 命中的学位标签，例如 "Master"
	DegreeLevel int    // 学位序数（PhD=7 … Secondary=1，未命中为0）
	Field       string // 专业方向（可选）
	Institution string // 院校（可选）
	StartYear   int    // 起始年份，0 表示缺失
	EndYear     int    // 结束年份，0 表示缺失
}

// MatchResult 单个候选人的匹配结果。
// CandidateIndex 指向输入简历批次中的位置，调用方依赖该下标与原始数组对齐。
type MatchResult struct {
	CandidateIndex int           `json:"candidate_index"`
	Profile        ResumeProfile `json:"profile"`
	FinalScore     float64       `json:"final_score"` // 融合后的最终得分，始终落在 [0,1]
	Suggestions    []string      `json:"suggestions"`
}
