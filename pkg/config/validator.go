package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator 配置验证器
type Validator struct {
	validate *validator.Validate
}

// NewValidator 创建验证器
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate 验证配置结构体
// 支持标准 validator tag：required、min/max、oneof、gte/lte 等
func (v *Validator) Validate(cfg any) error {
	if cfg == nil {
		return ErrNilConfig
	}

	if err := v.validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, formatValidationErrors(err))
	}
	return nil
}

// ValidateField 验证单个值
func (v *Validator) ValidateField(field any, tag string) error {
	if err := v.validate.Var(field, tag); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, formatValidationErrors(err))
	}
	return nil
}

// formatValidationErrors 格式化验证错误信息
func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := fieldErr.Namespace()
		if field == "" {
			field = "value"
		}
		param := fieldErr.Param()

		switch fieldErr.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field '%s' is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be at least %s", field, param))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be at most %s", field, param))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be one of [%s]", field, param))
		default:
			msgs = append(msgs, fmt.Sprintf("field '%s' failed validation '%s'", field, fieldErr.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
