package entity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt 宽松整数：接受JSON数字或字符串，解析失败按0计
// 前端历史数据里defectQty等字段数字/字符串混用，汇总时按0降级而不是整条拒绝。
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// 可能是"5.0"这类写法
		if fv, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64); ferr == nil {
			*f = FlexInt(int(fv))
			return nil
		}
		*f = 0
		return nil
	}
	*f = FlexInt(v)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// FlexFloat 宽松浮点数：接受JSON数字或字符串，解析失败按0计
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}
