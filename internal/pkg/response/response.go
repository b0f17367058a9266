package response

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/pkg/util"
	"Lighthouse/internal/service"
	stdjson "encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	FailWithData(c, businessCode, message, nil)
}

// FailWithData 失败返回并携带明细
func FailWithData(c *gin.Context, businessCode int, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    data,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		FailWithData(c, BadRequest, service.ErrParamInvalid.Error(), util.FieldErrors(ve))
		return
	}

	var fe *service.ValidationError
	if errors.As(err, &fe) {
		FailWithData(c, BadRequest, fe.Cause.Error(), fe.Fields)
		return
	}

	if isDecodeError(err) {
		Fail(c, BadRequest, "Json错误")
		return
	}

	code, sentinel, ok := service.CodeOf(err)
	if !ok || code == InternalServerError {
		log.ErrorContext(c.Request.Context(), "Error", "path", c.FullPath(), "err", err)
	}
	Fail(c, code, sentinel.Error())
}

func isDecodeError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var stdType *stdjson.UnmarshalTypeError
	var stdSyntax *stdjson.SyntaxError
	var goType *json.UnmarshalTypeError
	var goSyntax *json.SyntaxError
	return errors.As(err, &stdType) || errors.As(err, &stdSyntax) ||
		errors.As(err, &goType) || errors.As(err, &goSyntax)
}
