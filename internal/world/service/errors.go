package service

import (
	"Wayfarer/internal/world/entity"
	"Wayfarer/modules/kit/errx"
)

// 生成器错误码。
const (
	CodeConfiguration      errx.Code = "CONFIGURATION_ERROR"
	CodeContradiction      errx.Code = "CONTRADICTION"
	CodeNoValidOption      errx.Code = "NO_VALID_OPTION"
	CodeGenerationFailed   errx.Code = "GENERATION_FAILED"
	CodeGenerationCanceled errx.Code = "GENERATION_CANCELED"
)

var (
	// ErrConfiguration 在任何生成开始前返回（尺寸、目录、权重、引用非法）。
	ErrConfiguration = errx.NewBiz(CodeConfiguration, "生成配置非法")

	// ErrContradiction 某格候选集被传播清空；可恢复，触发整图重启。
	ErrContradiction = errx.NewSys(CodeContradiction, "约束冲突")

	// ErrNoValidOption 被选中的格子候选权重和为 0，属于不变式被破坏。
	ErrNoValidOption = errx.NewSys(CodeNoValidOption, "没有可选地形")

	// ErrGenerationFailed 重启次数耗尽，调用方应使用兜底布局。
	ErrGenerationFailed = errx.NewSys(CodeGenerationFailed, "世界生成失败")

	ErrGenerationCanceled = errx.NewBiz(CodeGenerationCanceled, "世界生成已取消")
)

func configurationError(cause error) error {
	return ErrConfiguration.WithCause(cause)
}

func contradictionAt(pos entity.Position) error {
	return ErrContradiction.WithData("x", pos.X).WithData("y", pos.Y)
}

// IsRecoverable 冲突类错误只需整图重启。
func IsRecoverable(err error) bool {
	switch errx.CodeOf(err) {
	case CodeContradiction, CodeNoValidOption:
		return true
	}
	return false
}
