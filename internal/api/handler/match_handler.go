package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"resume-match-go/internal/matcher"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
)

// MatchHandler 对外HTTP处理器：简历提取与岗位匹配。
// Web层只做取参、解码和编排，所有分析逻辑都在核心组件里。
type MatchHandler struct {
	ranker  *matcher.Ranker
	decoder *parser.DocumentDecoder
}

// NewMatchHandler 创建处理器。
func NewMatchHandler(ranker *matcher.Ranker, decoder *parser.DocumentDecoder) (*MatchHandler, error) {
	if ranker == nil {
		return nil, fmt.Errorf("Ranker 不能为空")
	}
	if decoder == nil {
		return nil, fmt.Errorf("DocumentDecoder 不能为空")
	}
	return &MatchHandler{ranker: ranker, decoder: decoder}, nil
}

// ExtractRequest 简历提取的JSON请求体。
type ExtractRequest struct {
	ResumeText string `json:"resume_text"`
}

// ExtractResponse 简历提取响应。
type ExtractResponse struct {
	RequestID string              `json:"request_id"`
	Profile   types.ResumeProfile `json:"profile"`
}

// MatchRequest 岗位匹配的JSON请求体。
type MatchRequest struct {
	JobText     string   `json:"job_text"`
	ResumeTexts []string `json:"resume_texts"`
}

// MatchResponse 岗位匹配响应，Results 已按最终得分降序。
type MatchResponse struct {
	RequestID string              `json:"request_id"`
	Results   []types.MatchResult `json:"results"`
}

// HandleExtract 提取单份简历的结构化档案。
// 接受 multipart 上传（file 字段）或 JSON 里的 resume_text 纯文本。
func (h *MatchHandler) HandleExtract(c context.Context, ctx *app.RequestContext) {
	requestID := uuid.NewString()

	text, ok := h.resumeTextFromRequest(c, ctx)
	if !ok {
		err := matcher.NewInvalidRequestError(requestID, "extract", "缺少简历内容: 需要 file 上传或 resume_text 字段")
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	ctx.JSON(consts.StatusOK, ExtractResponse{
		RequestID: requestID,
		Profile:   h.ranker.Extract(text),
	})
}

// HandleMatch 对一批简历按岗位匹配度排序。
// JSON: {"job_text": "...", "resume_texts": ["...", ...]}
// multipart: job_text 表单字段 + 若干 files 文件。
func (h *MatchHandler) HandleMatch(c context.Context, ctx *app.RequestContext) {
	requestID := uuid.NewString()

	var jobText string
	var resumeTexts []string

	if isJSONRequest(ctx) {
		var req MatchRequest
		if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
			wrapped := matcher.NewInvalidRequestError(requestID, "match", "请求体不是合法的JSON")
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": wrapped.Error()})
			return
		}
		jobText = req.JobText
		resumeTexts = req.ResumeTexts
	} else {
		jobText = ctx.PostForm("job_text")
		form, err := ctx.MultipartForm()
		if err == nil {
			for _, fileHeader := range form.File["files"] {
				// 坏文件解码为空串，该候选人字段整体降级为 NotFound，不中断批次
				resumeTexts = append(resumeTexts, h.decodeUpload(c, fileHeader))
			}
		}
	}

	if strings.TrimSpace(jobText) == "" {
		err := matcher.NewEmptyJobTextError(requestID, "match")
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	results := h.ranker.Rank(c, jobText, resumeTexts)
	ctx.JSON(consts.StatusOK, MatchResponse{RequestID: requestID, Results: results})
}

// HandleSuggest 针对一份简历生成改进建议。
func (h *MatchHandler) HandleSuggest(c context.Context, ctx *app.RequestContext) {
	requestID := uuid.NewString()

	var req struct {
		JobText    string `json:"job_text"`
		ResumeText string `json:"resume_text"`
	}
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		wrapped := matcher.NewInvalidRequestError(requestID, "suggest", "请求体不是合法的JSON")
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": wrapped.Error()})
		return
	}
	if strings.TrimSpace(req.JobText) == "" {
		err := matcher.NewEmptyJobTextError(requestID, "suggest")
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	profile := h.ranker.Extract(req.ResumeText)
	suggestions := h.ranker.Suggest(req.JobText, req.ResumeText, profile.Skills)
	ctx.JSON(consts.StatusOK, utils.H{
		"request_id":  requestID,
		"suggestions": suggestions,
	})
}

// resumeTextFromRequest 从上传文件或JSON字段里取出简历文本。
func (h *MatchHandler) resumeTextFromRequest(c context.Context, ctx *app.RequestContext) (string, bool) {
	if fileHeader, err := ctx.FormFile("file"); err == nil {
		return h.decodeUpload(c, fileHeader), true
	}
	if isJSONRequest(ctx) {
		var req ExtractRequest
		if err := json.Unmarshal(ctx.Request.Body(), &req); err == nil && req.ResumeText != "" {
			return req.ResumeText, true
		}
	}
	if text := ctx.PostForm("resume_text"); text != "" {
		return text, true
	}
	return "", false
}

// decodeUpload 读出上传文件并解码为纯文本；任何失败都产出空串。
func (h *MatchHandler) decodeUpload(c context.Context, fileHeader *multipart.FileHeader) string {
	file, err := fileHeader.Open()
	if err != nil {
		return ""
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ""
	}
	return h.decoder.Decode(c, data, fileHeader.Filename)
}

func isJSONRequest(ctx *app.RequestContext) bool {
	return strings.Contains(string(ctx.ContentType()), "application/json")
}
