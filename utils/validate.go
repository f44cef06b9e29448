package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	errorc "cardmarket/pkg/core/err"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

var (
	validate     *validator.Validate
	translator   ut.Translator
	validateOnce sync.Once
)

// 常见中文错误信息映射
var customErrorMessages = map[string]string{
	"required": "不能为空",
	"email":    "必须是有效的电子邮件地址",
	"min":      "长度必须至少为{0}",
	"max":      "长度不能超过{0}",
	"oneof":    "必须是[{0}]中的一个",
	"gt":       "必须大于{0}",
	"gte":      "必须大于或等于{0}",
	"lte":      "必须小于或等于{0}",
	"url":      "必须是有效的URL",
	"nonblank": "不能只包含空白字符",
}

// NewValidator 创建一个支持中文错误信息的验证器
func NewValidator() (*validator.Validate, ut.Translator) {
	v := validator.New()

	// 字段名优先取 comment 标签，其次取 json 标签
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("comment"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	zhTrans := zh.New()
	uni := ut.New(zhTrans, zhTrans)
	trans, _ := uni.GetTranslator("zh")

	_ = zh_translations.RegisterDefaultTranslations(v, trans)

	for tag, msg := range customErrorMessages {
		registerCustomTranslation(v, trans, tag, msg)
	}

	return v, trans
}

func registerCustomTranslation(v *validator.Validate, trans ut.Translator, tag string, message string) {
	_ = v.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, message, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		switch tag {
		case "oneof":
			return fe.Field() + "必须是[" + fe.Param() + "]中的一个"
		case "min", "max", "gt", "gte", "lte":
			t, _ := ut.T(fe.Tag(), fe.Param())
			return fe.Field() + t
		default:
			return fe.Field() + message
		}
	})
}

// GetValidator 获取全局验证器实例
func GetValidator() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		validate, translator = NewValidator()
	})
	return validate, translator
}

// Validate 验证结构体并返回中文错误信息
func Validate(data interface{}) (string, error) {
	v, trans := GetValidator()
	err := v.Struct(data)
	if err == nil {
		return "", nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error(), err
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Translate(trans))
	}
	return strings.Join(msgs, "; "), err
}

// Check 验证失败时返回参数错误
func Check(data interface{}) error {
	msg, err := Validate(data)
	if err != nil {
		return errorc.New(msg, err).ValidWithCtx()
	}
	return nil
}
