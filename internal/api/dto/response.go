package dto

// Response 统一返回结构，HTTP 状态码恒为 200，业务状态见 Code
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// FieldErrorDTO 字段级校验错误
type FieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
