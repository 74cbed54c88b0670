package app

import "Wayfarer/modules/kit/errx"

type Code = errx.Code

const (
	CodeWorldNameInvalid Code = "WORLD_NAME_INVALID"
	CodeInternalServer   Code = errx.CodeInternal
	CodeUnavailable      Code = errx.CodeUnavailable
)

type Error = errx.Error

// 哨兵错误：通过 WithData/WithCause 派生，禁止原地修改。
var (
	ErrWorldNameInvalid = errx.NewBiz(CodeWorldNameInvalid, "世界名称不合法")
	ErrReqParamERR      = errx.ErrReqParamERR
	ErrInternalServer   = errx.ErrInternal
	ErrUnavailable      = errx.ErrUnavailable
)
