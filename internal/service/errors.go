package service

import (
	"Lighthouse/internal/api/dto"
	"errors"
	"strings"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrInvalidTimezone     = errors.New("无效的时区")
	ErrUnsupportedPlatform = errors.New("不支持的平台")
	ErrUnsupportedRegion   = errors.New("不支持的区域")
	ErrInvalidWorkerStatus = errors.New("无效的 worker 状态")
	ErrInvalidJobStatus    = errors.New("无效的任务状态")
	ErrContentNotFound     = errors.New("内容不存在")
	ErrWorkerNotFound      = errors.New("worker 不存在")
	ErrJobNotFound         = errors.New("任务不存在")
	ErrWorkerExists        = errors.New("worker 已注册")
	ErrJobExists           = errors.New("任务已存在")
	ErrJobTerminal         = errors.New("任务已结束")
	ErrInvalidTransition   = errors.New("非法的任务状态流转")
	ErrWorkerUnavailable   = errors.New("worker 不可用")
	ErrWorkerAtCapacity    = errors.New("worker 已满载")
	ErrNoWorkerAvailable   = errors.New("没有可用的 worker")
	ErrJobWorkerMismatch   = errors.New("任务不属于该 worker")
	ErrContentRetrieval    = errors.New("内容检索失败")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrInvalidTimezone:     BadRequest,
	ErrUnsupportedPlatform: BadRequest,
	ErrUnsupportedRegion:   BadRequest,
	ErrInvalidWorkerStatus: BadRequest,
	ErrInvalidJobStatus:    BadRequest,
	ErrContentNotFound:     NotFound,
	ErrWorkerNotFound:      NotFound,
	ErrJobNotFound:         NotFound,
	ErrWorkerExists:        Conflict,
	ErrJobExists:           Conflict,
	ErrJobTerminal:         Conflict,
	ErrInvalidTransition:   Conflict,
	ErrWorkerUnavailable:   Conflict,
	ErrWorkerAtCapacity:    Conflict,
	ErrNoWorkerAvailable:   Conflict,
	ErrJobWorkerMismatch:   Unauthorized,
	ErrContentRetrieval:    InternalServerError,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}

// errorPriority 包装错误同时命中多个哨兵时的匹配顺序，具体错误优先于 ErrParamInvalid
var errorPriority = []error{
	ErrInvalidTimezone,
	ErrUnsupportedPlatform,
	ErrUnsupportedRegion,
	ErrInvalidWorkerStatus,
	ErrInvalidJobStatus,
	ErrContentNotFound,
	ErrWorkerNotFound,
	ErrJobNotFound,
	ErrWorkerExists,
	ErrJobExists,
	ErrJobTerminal,
	ErrInvalidTransition,
	ErrWorkerUnavailable,
	ErrWorkerAtCapacity,
	ErrNoWorkerAvailable,
	ErrJobWorkerMismatch,
	ErrContentRetrieval,
	UnauthorizedError,
	ErrParamInvalid,
	UnExpectedError,
}

// ValidationError 携带字段级明细的参数错误，errors.Is(err, ErrParamInvalid) 成立
type ValidationError struct {
	Cause  error
	Fields []dto.FieldErrorDTO
}

func NewValidationError(cause error, field, message string) *ValidationError {
	return &ValidationError{
		Cause:  cause,
		Fields: []dto.FieldErrorDTO{{Field: field, Message: message}},
	}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Cause.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrParamInvalid || errors.Is(e.Cause, target)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// CodeOf 按 ErrorMap 解析业务码，支持被包装的哨兵错误
func CodeOf(err error) (int, error, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, err, true
	}
	for _, sentinel := range errorPriority {
		if errors.Is(err, sentinel) {
			return ErrorMap[sentinel], sentinel, true
		}
	}
	return InternalServerError, UnExpectedError, false
}
