package util

import (
	"strconv"
	"strings"
	"time"
)

// QueryInt 将查询参数转换为整数，解析失败时返回默认值
func QueryInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// ParseDate 解析 yyyy-mm-dd 格式的日期，空字符串返回 nil
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return nil, InvalidInput("invalid date %q", s)
	}
	return &t, nil
}
