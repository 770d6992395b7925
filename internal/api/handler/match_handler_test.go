package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/api/router"
	"resume-match-go/internal/extractor"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/taxonomy"
	"resume-match-go/internal/types"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder 含 "python" 的文本与岗位同向，其余正交。
type stubEmbedder struct{}

func (s *stubEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		if strings.Contains(strings.ToLower(text), "python") {
			vectors[i] = []float64{1, 0}
		} else {
			vectors[i] = []float64{0, 1}
		}
	}
	return vectors, nil
}

func (s *stubEmbedder) GetDimensions() int { return 2 }

// newTestServer 组装一套贯通到核心组件的测试服务。
func newTestServer(t *testing.T) *server.Hertz {
	t.Helper()
	ctx := context.Background()

	tax := taxonomy.Default()
	fieldExtractor, err := extractor.NewFieldExtractor(tax)
	require.NoError(t, err)
	similarity, err := matcher.NewSimilarityEngine(&stubEmbedder{})
	require.NoError(t, err)
	blender, err := matcher.NewScoreBlender(tax)
	require.NoError(t, err)
	suggester, err := matcher.NewSuggestionGenerator(tax)
	require.NoError(t, err)
	ranker, err := matcher.NewRanker(fieldExtractor, similarity, blender, suggester)
	require.NoError(t, err)
	decoder, err := parser.NewDocumentDecoder(ctx)
	require.NoError(t, err)
	matchHandler, err := handler.NewMatchHandler(ranker, decoder)
	require.NoError(t, err)

	h := server.New()
	router.RegisterRoutes(h, matchHandler)
	return h
}

func postJSON(h *server.Hertz, path string, payload interface{}) *ut.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return ut.PerformRequest(h.Engine, "POST", path,
		&ut.Body{Body: bytes.NewBuffer(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestHandleExtractJSON(t *testing.T) {
	h := newTestServer(t)

	resp := postJSON(h, "/api/v1/resume/extract", handler.ExtractRequest{
		ResumeText: "John Doe\njohn@example.com\nPython and SQL developer",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var extractResp handler.ExtractResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &extractResp))
	assert.NotEmpty(t, extractResp.RequestID)
	assert.Equal(t, "John Doe", extractResp.Profile.Name)
	assert.Equal(t, "john@example.com", extractResp.Profile.Email)
	assert.Contains(t, extractResp.Profile.Skills, "Python")
}

func TestHandleExtractMissingInput(t *testing.T) {
	h := newTestServer(t)

	resp := postJSON(h, "/api/v1/resume/extract", handler.ExtractRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleMatchJSON(t *testing.T) {
	h := newTestServer(t)

	resp := postJSON(h, "/api/v1/jobs/match", handler.MatchRequest{
		JobText:     "Hiring Python and SQL engineer",
		ResumeTexts: []string{"Go developer", "Python and SQL expert"},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var matchResp handler.MatchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &matchResp))
	require.Len(t, matchResp.Results, 2)
	// Python 简历排在前面，CandidateIndex 指回输入批次
	assert.Equal(t, 1, matchResp.Results[0].CandidateIndex)
	assert.Greater(t, matchResp.Results[0].FinalScore, matchResp.Results[1].FinalScore)
}

func TestHandleMatchRequiresJobText(t *testing.T) {
	h := newTestServer(t)

	resp := postJSON(h, "/api/v1/jobs/match", handler.MatchRequest{
		ResumeTexts: []string{"whatever"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// 空批次返回空结果而不是错误。
func TestHandleMatchEmptyBatch(t *testing.T) {
	h := newTestServer(t)

	resp := postJSON(h, "/api/v1/jobs/match", handler.MatchRequest{JobText: "Python engineer"})
	require.Equal(t, http.StatusOK, resp.Code)

	var matchResp handler.MatchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &matchResp))
	assert.Empty(t, matchResp.Results)
}

func TestHandleMatchMultipart(t *testing.T) {
	h := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("job_text", "Hiring Python engineer"))

	part, err := writer.CreateFormFile("files", "candidate.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Alice Jones\nalice@example.com\nPython developer"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/jobs/match",
		&ut.Body{Body: &buf, Len: buf.Len()},
		ut.Header{Key: "Content-Type", Value: writer.FormDataContentType()},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	var matchResp handler.MatchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &matchResp))
	require.Len(t, matchResp.Results, 1)
	assert.Equal(t, "Alice Jones", matchResp.Results[0].Profile.Name)
}

func TestHandleSuggest(t *testing.T) {
	h := newTestServer(t)

	resp := postJSON(h, "/api/v1/resume/suggest", map[string]string{
		"job_text":    "Need Python, SQL and Docker",
		"resume_text": "Go developer without contacts",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var suggestResp struct {
		RequestID   string   `json:"request_id"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &suggestResp))
	assert.NotEmpty(t, suggestResp.Suggestions)
	assert.Contains(t, suggestResp.Suggestions[0], "Missing skills")
}

func TestHandleSuggestInvalidBody(t *testing.T) {
	h := newTestServer(t)

	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/resume/suggest",
		&ut.Body{Body: bytes.NewBufferString("{broken"), Len: len("{broken")},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

// 降级路径：损坏的上传解码为空文本，对应候选人字段整体 NotFound，批次照常返回。
func TestHandleMatchCorruptUpload(t *testing.T) {
	h := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("job_text", "Hiring Python engineer"))

	part, err := writer.CreateFormFile("files", "broken.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a real pdf"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp := ut.PerformRequest(h.Engine, "POST", "/api/v1/jobs/match",
		&ut.Body{Body: &buf, Len: buf.Len()},
		ut.Header{Key: "Content-Type", Value: writer.FormDataContentType()},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	var matchResp handler.MatchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &matchResp))
	require.Len(t, matchResp.Results, 1)
	assert.Equal(t, types.NotFound, matchResp.Results[0].Profile.Name)
}
