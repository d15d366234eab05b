package httpapi

import (
	"fmt"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators はginのバインディングにカスタム検証を登録する
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine: %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("function_ref", validFunctionRef); err != nil {
		return fmt.Errorf("failed to register function_ref validation: %w", err)
	}

	return nil
}

// validFunctionRef は "module.path.function" 形式かどうかを検証する
func validFunctionRef(fl validator.FieldLevel) bool {
	_, err := analysis.ParseFunctionRef(fl.Field().String())
	return err == nil
}
