package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numeric 接受 JSON 字符串或数字的验证码字段。
// 数值取前导整数：可选符号加数字，后续字符忽略。
type Numeric struct {
	raw string
	set bool
}

// NumericOf 构造已赋值的 Numeric
func NumericOf(v string) Numeric { return Numeric{raw: v, set: true} }

// UnmarshalJSON 支持 "10"、10、10.0 与 null
func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Numeric{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumericOf(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	if _, err := num.Int64(); err != nil {
		// 1e1 / 10.5 之类按数值截断
		if f, ferr := num.Float64(); ferr == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			*n = NumericOf(strconv.FormatFloat(math.Trunc(f), 'f', 0, 64))
			return nil
		}
	}
	*n = NumericOf(num.String())
	return nil
}

// MarshalJSON 原样输出字符串形式
func (n Numeric) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.raw)
}

// Present 字段是否出现且非空
func (n Numeric) Present() bool { return n.set && strings.TrimSpace(n.raw) != "" }

// Int 返回前导整数；没有数字时 ok 为 false
func (n Numeric) Int() (int, bool) {
	if !n.set {
		return 0, false
	}
	return parseLeadingInt(n.raw)
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
