// Package types 定义 HTTP 层使用的请求与响应结构体.
package types

// Response 所有接口统一的响应信封.
// 失败时 Error 携带原始错误文本，成功时 Data 携带业务数据.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK 构造成功响应.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail 构造失败响应，err 为 nil 时不输出 error 字段.
func Fail(message string, err error) Response {
	r := Response{Success: false, Message: message}
	if err != nil {
		r.Error = err.Error()
	}

	return r
}
