package matcher

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrEmptyJobText   = errors.New("岗位描述不能为空")
	ErrInvalidRequest = errors.New("请求内容不合法")
)

// MatchError 包含请求上下文的自定义错误。
// 提取和排序本身从不报错（字段降级为 NotFound，相似度退化为0），
// 这里覆盖的是进入核心之前的入参校验路径。
type MatchError struct {
	RequestID string
	Op        string
	BaseErr   error
	Detail    string
}

func (e *MatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 请求:%s): %s", e.BaseErr, e.Op, e.RequestID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 请求:%s)", e.BaseErr, e.Op, e.RequestID)
}

func (e *MatchError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *MatchError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewEmptyJobTextError(requestID, op string) error {
	return &MatchError{
		RequestID: requestID,
		Op:        op,
		BaseErr:   ErrEmptyJobText,
	}
}

func NewInvalidRequestError(requestID, op, detail string) error {
	return &MatchError{
		RequestID: requestID,
		Op:        op,
		BaseErr:   ErrInvalidRequest,
		Detail:    detail,
	}
}
