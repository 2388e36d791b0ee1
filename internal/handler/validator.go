package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Trans 全局翻译器，InitTrans 之前为 nil
var Trans ut.Translator

// sectionIndexTag 课号校验：1-10 位数字，如 "12345"
const sectionIndexTag = "sectionindex"

// InitTrans 初始化翻译器并注册自定义校验规则
// locale 例如 "zh" 或 "en"，未知 locale 使用英文规则
func InitTrans(locale string) (err error) {
	// Gin v1.9+ 中 binding.Validator 可能为 nil
	if binding.Validator == nil {
		binding.Validator = &defaultValidator{validator: validator.New()}
	}

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	// 报错信息使用 json tag（如 userId）而不是结构体字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err = v.RegisterValidation(sectionIndexTag, validSectionIndex); err != nil {
		return err
	}

	// 英文为 fallback
	uni := ut.New(en.New(), zh.New(), en.New())
	Trans, ok = uni.GetTranslator(locale)
	if !ok {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	indexMsg := "{0}必须是课号数字"
	switch locale {
	case "zh":
		err = zh_translations.RegisterDefaultTranslations(v, Trans)
	default:
		err = en_translations.RegisterDefaultTranslations(v, Trans)
		indexMsg = "{0} must be a numeric section index"
	}
	if err != nil {
		return err
	}
	return v.RegisterTranslation(sectionIndexTag, Trans,
		func(t ut.Translator) error { return t.Add(sectionIndexTag, indexMsg, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(sectionIndexTag, fe.Field())
			return msg
		},
	)
}

func validSectionIndex(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RemoveTopStruct 去除提示信息中的结构体名称，如 "SendContactRequest.targetId" -> "targetId"
func RemoveTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string)
	for field, err := range fields {
		res[field[strings.Index(field, ".")+1:]] = err
	}
	return res
}

// defaultValidator 实现 binding.StructValidator
type defaultValidator struct {
	validator *validator.Validate
}

func (v *defaultValidator) ValidateStruct(obj interface{}) error {
	return v.validator.Struct(obj)
}

func (v *defaultValidator) Engine() interface{} {
	return v.validator
}
