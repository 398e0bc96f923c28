// Package rule 封装 go-playground/validator，统一使用 `rule` 标签，与 gin 的绑定引擎相互独立.
package rule

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// TagName 结构体校验标签名.
const TagName = "rule"

var (
	inst *validator.Validate
	once sync.Once
)

// initValidator 创建独立于 gin 的 validator 实例，gin 引擎按 binding 标签缓存结构体规则.
// 字段名优先取 json 标签，使错误信息与请求体字段一致.
func initValidator() {
	inst = validator.New()
	inst.SetTagName(TagName)
	inst.RegisterTagNameFunc(jsonFieldName)

	_ = inst.RegisterValidation("notblank", notBlank)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return fld.Name
	}

	return name
}

// notBlank 拒绝只含空白字符的字符串.
func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return !f.IsZero()
	}

	return strings.TrimSpace(f.String()) != ""
}

// lazyInit 初始化全局 validator（幂等）.
func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate，若未初始化则先初始化.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation 代理 RegisterValidation，确保已初始化.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// ValidationErrors 是格式化后的验证错误字典，键为字段路径，值为可读错误信息.
type ValidationErrors map[string]string

// Error 实现 error，按字段名输出第一条信息以保证稳定.
func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}

	if len(keys) == 0 {
		return "validation failed"
	}

	first := keys[0]
	for _, k := range keys[1:] {
		if k < first {
			first = k
		}
	}

	return v[first]
}

// Errors 把 validator 返回的错误展开为 ValidationErrors；非校验错误返回 nil.
func Errors(err error) ValidationErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		out[trimNamespace(fe.Namespace())] = describe(fe)
	}

	return out
}

// trimNamespace 去掉顶层结构体名，例如 "createImagesRequest.tags[0]" -> "tags[0]".
func trimNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return ns
}

func describe(fe validator.FieldError) string {
	field := trimNamespace(fe.Namespace())

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s item(s)", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

// ValidateStruct 对结构体执行完整校验，返回原始 error（可用 Errors 解析）.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("abc", "required,email").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// RegisterAlias 包装 RegisterAlias，便于注册别名规则.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}
