package util

import (
	"Lighthouse/internal/api/dto"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterTagNames 校验错误中的字段名改用 json/form 标签名，与请求体保持一致
func RegisterTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// FieldErrors 将校验错误展开为字段级明细，字段取去掉顶层结构体名后的命名空间
func FieldErrors(vErrs validator.ValidationErrors) []dto.FieldErrorDTO {
	out := make([]dto.FieldErrorDTO, 0, len(vErrs))
	for _, fe := range vErrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out = append(out, dto.FieldErrorDTO{Field: field, Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "url":
		return "must be a valid URL"
	}
	return fmt.Sprintf("failed on rule [%s]", fe.Tag())
}
