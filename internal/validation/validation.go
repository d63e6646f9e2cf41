package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 字段错误码
const (
	CodeInvalidName    = "InvalidName"
	CodeInvalidEmail   = "InvalidEmail"
	CodeInvalidMessage = "InvalidMessage"
)

// ErrChallengeFailed 验证码答案缺失或不匹配
var ErrChallengeFailed = errors.New("challenge failed")

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError 一次提交中所有字段级错误
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Submission 联系表单原始输入
type Submission struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Message       string  `json:"message"`
	Captcha       Numeric `json:"captcha" swaggertype:"string"`
	CaptchaAnswer Numeric `json:"captchaAnswer" swaggertype:"integer"`
}

// Accepted 通过校验并规范化后的留言
type Accepted struct {
	Name    string
	Email   string
	Message string
}

type fields struct {
	Name    string `json:"name" validate:"min=2,max=100"`
	Email   string `json:"email" validate:"required,max=254,email"`
	Message string `json:"message" validate:"min=10,max=1000"`
}

var rules = map[string]FieldError{
	"name":    {Field: "name", Code: CodeInvalidName, Message: "Name must be between 2 and 100 characters"},
	"email":   {Field: "email", Code: CodeInvalidEmail, Message: "Please provide a valid email address"},
	"message": {Field: "message", Code: CodeInvalidMessage, Message: "Message must be between 10 and 1000 characters"},
}

// Validator 表单校验器，可并发使用
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Check 先做字段校验，全部通过后再比对验证码。
// 返回 *ValidationError 或 ErrChallengeFailed。
func (val *Validator) Check(sub Submission) (*Accepted, error) {
	f := fields{
		Name:    strings.TrimSpace(sub.Name),
		Email:   strings.TrimSpace(sub.Email),
		Message: strings.TrimSpace(sub.Message),
	}

	if err := val.v.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		seen := make(map[string]bool, len(verrs))
		out := &ValidationError{}
		for _, fe := range verrs {
			if seen[fe.Field()] {
				continue
			}
			seen[fe.Field()] = true
			out.Details = append(out.Details, rules[fe.Field()])
		}
		return nil, out
	}

	if !ChallengeMatches(sub.Captcha, sub.CaptchaAnswer) {
		return nil, ErrChallengeFailed
	}

	return &Accepted{
		Name:    f.Name,
		Email:   NormalizeEmail(f.Email),
		Message: f.Message,
	}, nil
}

// ChallengeMatches 两侧都能解析出整数且相等
func ChallengeMatches(answer, expected Numeric) bool {
	if !answer.Present() {
		return false
	}
	a, ok := answer.Int()
	if !ok {
		return false
	}
	e, ok := expected.Int()
	if !ok {
		return false
	}
	return a == e
}
