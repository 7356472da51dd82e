package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 錯誤訊息使用 json 欄位名稱
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate 檢查 request body
//
// 錯誤:
//   - er.BadRequestCode 400: 第一個不符合規則的欄位
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return er.New(er.BadRequestCode, describeFieldError(fieldErrs[0]))
	}
	return er.New(er.BadRequestCode, err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("\"%s\" is required", fe.Field())
	case "email":
		return fmt.Sprintf("\"%s\" must be a valid email", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("\"%s\" length must be at least %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("\"%s\" must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("\"%s\" failed on %s", fe.Field(), fe.Tag())
	}
}
