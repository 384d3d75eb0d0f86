package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"gpa-tracker/pkg/gpa"
	"gpa-tracker/pkg/response"
)

// RegisterValidators 向 gin 的校验引擎注册自定义规则
//
//	grade: 字符串必须是绩点表中的字母成绩
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding 校验引擎不是 validator/v10")
	}
	return v.RegisterValidation("grade", func(fl validator.FieldLevel) bool {
		return gpa.IsValid(fl.Field().String())
	})
}

// badRequest 参数绑定失败时返回 10001，附带首个字段错误
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		response.ErrorWithDetails(c, 400, 10001, "参数校验失败",
			fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
		return
	}
	response.BadRequest(c, 10001, "参数校验失败")
}
