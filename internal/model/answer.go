package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AnswerText 是提交答案或标准答案的字符串形式。
// 解码时数字和布尔值会被显式转换为字符串，对象和数组则报类型错误。
type AnswerText string

func (a *AnswerText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s, err := CoerceAnswer(v)
	if err != nil {
		return err
	}
	*a = AnswerText(s)
	return nil
}

// CoerceAnswer 把 JSON 解码出的标量转换为答案字符串
func CoerceAnswer(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	default:
		return "", fmt.Errorf("answer must be a string, number or boolean, got %T", v)
	}
}
