package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDecoder(t *testing.T) *DocumentDecoder {
	t.Helper()
	d, err := NewDocumentDecoder(context.Background())
	require.NoError(t, err)
	return d
}

func TestDecodePlainText(t *testing.T) {
	d := newTestDecoder(t)

	assert.Equal(t, "hello resume", d.Decode(context.Background(), []byte("hello resume"), "notes.txt"))
	// 未知类型按纯文本处理
	assert.Equal(t, "hello", d.Decode(context.Background(), []byte("hello"), "weird.xyz"))
	assert.Equal(t, "hello", d.Decode(context.Background(), []byte("hello"), ""))
}

// 非UTF-8字节按Latin-1语义提升为码点，而不是报错或产出乱码替换符。
func TestDecodePlainTextLatin1Fallback(t *testing.T) {
	d := newTestDecoder(t)

	got := d.Decode(context.Background(), []byte{'c', 'a', 'f', 0xe9}, "resume.txt")
	assert.Equal(t, "café", got)
}

// 损坏的文档解码为空串，绝不报错。
func TestDecodeCorruptDocumentsReturnEmpty(t *testing.T) {
	d := newTestDecoder(t)

	garbage := []byte("this is not a real document")
	assert.Equal(t, "", d.Decode(context.Background(), garbage, "resume.pdf"))
	assert.Equal(t, "", d.Decode(context.Background(), garbage, "resume.docx"))
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "pdf", normalizeType("Resume.PDF"))
	assert.Equal(t, "docx", normalizeType(" DOCX "))
	assert.Equal(t, "txt", normalizeType(".txt"))
	assert.Equal(t, "", normalizeType(""))
}

func TestDecodePlainTextHelper(t *testing.T) {
	assert.Equal(t, "中文简历", decodePlainText([]byte("中文简历")))
	assert.Equal(t, "", decodePlainText(nil))
}
