package router

import (
	"context"

	"resume-match-go/internal/api/handler"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RegisterRoutes 注册 API 路由。
func RegisterRoutes(h *server.Hertz, matchHandler *handler.MatchHandler) {
	api := h.Group("/api/v1")

	// 单份简历 → 结构化档案
	api.POST("/resume/extract", matchHandler.HandleExtract)

	// 岗位 + 简历批次 → 排序结果
	api.POST("/jobs/match", matchHandler.HandleMatch)

	// 单份简历 → 改进建议
	api.POST("/resume/suggest", matchHandler.HandleSuggest)

	// 健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
