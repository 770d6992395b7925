package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-match-go/internal/api/handler"
	"resume-match-go/internal/api/router"
	"resume-match-go/internal/config"
	"resume-match-go/internal/extractor"
	applogger "resume-match-go/internal/logger"
	"resume-match-go/internal/matcher"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/taxonomy"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/spf13/pflag"

	"log"
)

func main() {
	var configPath string
	var writeSample bool
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "配置文件路径")
	pflag.BoolVar(&writeSample, "write-sample-config", false, "写出示例配置文件后退出")
	pflag.Parse()

	if writeSample {
		if err := config.CreateSampleConfig(configPath); err != nil {
			log.Fatalf("写出示例配置失败: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	applogger.Init(applogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	glog.SetLogger(hertzadapter.From(applogger.Logger))
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 技能词表：进程级只读状态，构建一次后注入各组件
	tax := taxonomy.New(append(taxonomy.Default().Names(), cfg.Taxonomy.ExtraSkills...)...)
	glog.Infof("技能词表初始化成功, 条目数: %d", tax.Len())

	embedder, err := parser.NewAliyunEmbedder(cfg.Aliyun.APIKey, cfg.Aliyun.Embedding)
	if err != nil {
		glog.Fatalf("初始化阿里云Embedder失败: %v", err)
	}
	glog.Info("阿里云Embedder初始化成功")

	componentLogger := log.New(applogger.Logger, "", log.LstdFlags)

	similarityOptions := []matcher.SimilarityOption{
		matcher.WithEmbedTimeout(cfg.EmbedTimeout()),
		matcher.WithSimilarityLogger(componentLogger),
	}

	// Redis 缓存是可选依赖：没配地址或连不上都只是少一层缓存
	if cfg.Redis.Address != "" {
		redisAdapter, err := storage.NewRedisAdapter(&cfg.Redis)
		if err != nil {
			glog.Warnf("Redis不可用，岗位向量缓存已禁用: %v", err)
		} else {
			defer redisAdapter.Close()
			similarityOptions = append(similarityOptions,
				matcher.WithVectorCache(redisAdapter, embedder.Model()))
			glog.Info("Redis岗位向量缓存已启用")
		}
	}

	similarity, err := matcher.NewSimilarityEngine(embedder, similarityOptions...)
	if err != nil {
		glog.Fatalf("初始化相似度引擎失败: %v", err)
	}

	fieldExtractor, err := extractor.NewFieldExtractor(tax,
		extractor.WithExtractorLogger(componentLogger))
	if err != nil {
		glog.Fatalf("初始化字段提取器失败: %v", err)
	}

	blender, err := matcher.NewScoreBlender(tax)
	if err != nil {
		glog.Fatalf("初始化得分融合器失败: %v", err)
	}

	suggester, err := matcher.NewSuggestionGenerator(tax)
	if err != nil {
		glog.Fatalf("初始化建议生成器失败: %v", err)
	}

	ranker, err := matcher.NewRanker(fieldExtractor, similarity, blender, suggester,
		matcher.WithRankerLogger(componentLogger))
	if err != nil {
		glog.Fatalf("初始化排序编排器失败: %v", err)
	}

	decoder, err := parser.NewDocumentDecoder(ctx,
		parser.WithDecoderLogger(componentLogger))
	if err != nil {
		glog.Fatalf("初始化文档解码器失败: %v", err)
	}

	matchHandler, err := handler.NewMatchHandler(ranker, decoder)
	if err != nil {
		glog.Fatalf("初始化MatchHandler失败: %v", err)
	}

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})
	router.RegisterRoutes(h, matchHandler)
	glog.Info("HTTP路由注册成功")

	go func() {
		glog.Infof("HTTP 服务器启动中, 监听地址: %s", cfg.Server.Address)
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}
