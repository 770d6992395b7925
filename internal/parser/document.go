package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/nguyenthenguyen/docx"
)

// pdfParseTimeout 单个PDF的解析上限，防止损坏文件拖住整个请求。
const pdfParseTimeout = 30 * time.Second

// xmlTagPattern 剥掉 docx 内容里残留的标签。
var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// DocumentDecoder 把上传的文档字节流解码为纯文本，是核心的唯一文本入口。
// 契约：任何解码失败都返回空字符串，绝不向核心抛出错误——
// 一份坏文件只会让对应候选人的字段全部 NotFound，不会中断整个批次。
type DocumentDecoder struct {
	pdfParser *pdf.PDFParser
	logger    *log.Logger
}

// DocumentDecoderOption DocumentDecoder 的配置选项。
type DocumentDecoderOption func(*DocumentDecoder)

// WithDecoderLogger 设置日志记录器。
func WithDecoderLogger(logger *log.Logger) DocumentDecoderOption {
	return func(d *DocumentDecoder) {
		d.logger = logger
	}
}

// NewDocumentDecoder 创建文档解码器。
// PDF 走 Eino 解析器且不按页分割，整份文档合成单个连续文本。
func NewDocumentDecoder(ctx context.Context, options ...DocumentDecoderOption) (*DocumentDecoder, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	if err != nil {
		return nil, fmt.Errorf("创建PDF解析器失败: %w", err)
	}

	d := &DocumentDecoder{
		pdfParser: p,
		logger:    log.New(os.Stderr, "[DocumentDecoder] ", log.LstdFlags),
	}
	for _, option := range options {
		option(d)
	}
	return d, nil
}

// Decode 按声明类型解码。declaredType 接受扩展名（带不带点均可）或文件名。
// 未知类型按纯文本处理；解码失败返回空字符串。
func (d *DocumentDecoder) Decode(ctx context.Context, data []byte, declaredType string) string {
	switch normalizeType(declaredType) {
	case "pdf":
		return d.decodePDF(ctx, data, declaredType)
	case "docx":
		return d.decodeDocx(data)
	default:
		return decodePlainText(data)
	}
}

// decodePDF 从PDF字节流提取全文。
func (d *DocumentDecoder) decodePDF(ctx context.Context, data []byte, uri string) string {
	parseCtx, cancel := context.WithTimeout(ctx, pdfParseTimeout)
	defer cancel()

	docs, err := d.pdfParser.Parse(parseCtx, bytes.NewReader(data), einoparser.WithURI(uri))
	if err != nil {
		d.logger.Printf("PDF解析失败 (%s): %v", uri, err)
		return ""
	}

	var sb strings.Builder
	for _, doc := range docs {
		sb.WriteString(doc.Content)
	}
	return sb.String()
}

// decodeDocx 从DOCX字节流提取文本，剥掉文档XML里残留的标签。
func (d *DocumentDecoder) decodeDocx(data []byte) string {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		d.logger.Printf("DOCX解析失败: %v", err)
		return ""
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	return strings.TrimSpace(xmlTagPattern.ReplaceAllString(content, "\n"))
}

// decodePlainText 纯文本解码。非UTF-8输入逐字节提升为码点（Latin-1语义），
// 这样Windows/ANSI编码的txt也能读出可用的文本而不是报错。
func decodePlainText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// normalizeType 把扩展名/文件名归一化成小写裸类型，例如 "Resume.PDF" → "pdf"。
func normalizeType(declaredType string) string {
	t := strings.ToLower(strings.TrimSpace(declaredType))
	if idx := strings.LastIndex(t, "."); idx >= 0 {
		t = t[idx+1:]
	}
	return t
}
