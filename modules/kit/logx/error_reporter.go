package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	maxCauseDepth = 20
	maxStackDepth = 32
)

// ErrorLog 从错误链上抽出的可读字段，供接口层统一打印。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      string
}

// as 沿错误链找第一个实现 T 的错误。
func as[T any](err error) (T, bool) {
	var t T
	ok := errors.As(err, &t)
	return t, ok
}

func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	if p, ok := as[interface{ CodeText() string }](err); ok {
		out.Code = p.CodeText()
	}
	if p, ok := as[interface{ Msg() string }](err); ok {
		out.Msg = p.Msg()
	}
	if p, ok := as[interface{ Data() map[string]any }](err); ok {
		out.Data = p.Data()
	}
	if p, ok := as[interface{ Reason() string }](err); ok {
		out.Reason = p.Reason()
	}
	if p, ok := as[interface{ Stack() []uintptr }](err); ok {
		out.Origin, out.Stack = formatStack(p.Stack())
	}
	out.CauseChain = causeChain(err)
	return out
}

// Fields 只输出非空字段。
func (e ErrorLog) Fields() []zap.Field {
	var fs []zap.Field
	if e.Code != "" {
		fs = append(fs, zap.String("error_code", e.Code))
	}
	if len(e.CauseChain) > 0 {
		fs = append(fs, zap.Strings("cause_chain", e.CauseChain))
	}
	if len(e.Data) > 0 {
		fs = append(fs, zap.Any("error_data", e.Data))
	}
	if e.Origin != "" {
		fs = append(fs, zap.String("origin_caller", e.Origin))
	}
	if e.Stack != "" {
		fs = append(fs, zap.String("stack_origin", e.Stack))
	}
	return fs
}

// causeChain 展开 Unwrap 链，相邻重复的文本只留一条（errx 派生错误会包同一个 cause）。
func causeChain(err error) []string {
	var out []string
	cur := errors.Unwrap(err)
	for i := 0; i < maxCauseDepth && cur != nil; i++ {
		line := fmt.Sprintf("%T: %v", cur, cur)
		if n := len(out); n == 0 || out[n-1] != line {
			out = append(out, line)
		}
		cur = errors.Unwrap(cur)
	}
	return out
}

func formatStack(pcs []uintptr) (origin, stack string) {
	if len(pcs) == 0 {
		return "", ""
	}
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, 8)
	for len(lines) < maxStackDepth {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, f.Function+" "+f.File+":"+strconv.Itoa(f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
