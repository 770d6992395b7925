package matcher

import (
	"testing"

	"resume-match-go/internal/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlender(t *testing.T, skills ...string) *ScoreBlender {
	t.Helper()
	b, err := NewScoreBlender(taxonomy.New(skills...))
	require.NoError(t, err)
	return b
}

func TestNewScoreBlenderRequiresTaxonomy(t *testing.T) {
	_, err := NewScoreBlender(nil)
	assert.Error(t, err)
}

// 岗位技能走严格匹配，不做模糊。
func TestJobSkills(t *testing.T) {
	b := newTestBlender(t, "Python", "SQL", "Docker")

	assert.Equal(t, []string{"Python", "SQL"}, b.JobSkills("Need Python and SQL"))
	assert.Empty(t, b.JobSkills("Need Pyhton")) // 拼写错误在岗位侧不容忍
}

// final = 0.6*sim + 0.4*overlap/max(1,|jobSkills|)，逐位可复现。
func TestBlendWeights(t *testing.T) {
	b := newTestBlender(t, "Python", "SQL")

	job := []string{"Python", "SQL"}

	assert.InDelta(t, 0.5, b.Blend(0.5, []string{"Python"}, job), 1e-9) // 0.6*0.5 + 0.4*0.5
	assert.InDelta(t, 1.0, b.Blend(1.0, []string{"Python", "SQL"}, job), 1e-9)
	assert.InDelta(t, 0.4, b.Blend(0.0, []string{"Python", "SQL"}, job), 1e-9) // 纯技能分
	assert.InDelta(t, 0.6, b.Blend(1.0, nil, job), 1e-9)                       // 纯相似度分
	assert.InDelta(t, 0.0, b.Blend(0.0, nil, job), 1e-9)
}

// 岗位没有词表技能时技能项为0，得分完全由相似度决定。
func TestBlendEmptyJobSkills(t *testing.T) {
	b := newTestBlender(t, "Python")

	assert.InDelta(t, 0.6*0.8, b.Blend(0.8, []string{"Python"}, nil), 1e-9)
}

// 简历里多出的技能不加分，只看与岗位的交集。
func TestBlendExtraResumeSkillsIgnored(t *testing.T) {
	b := newTestBlender(t, "Python", "SQL", "Docker", "Go")

	job := []string{"Python"}
	resume := []string{"Python", "SQL", "Docker", "Go"}
	assert.InDelta(t, 0.4, b.Blend(0, resume, job), 1e-9)
}

func TestIntersectAndSubtract(t *testing.T) {
	a := []string{"Python", "SQL", "Go"}
	b := []string{"Go", "Python"}

	assert.Equal(t, []string{"Python", "Go"}, intersect(a, b))
	assert.Equal(t, []string{"SQL"}, subtract(a, b))
	assert.Empty(t, intersect(nil, b))
	assert.Empty(t, subtract(nil, b))
}
