// Package timeslot 提供课程时间相关的规范化工具
// 课程时间可能来自课程目录（4 位军用时间）或识别结果（12/24 小时制、是否补零不一），
// 入库前统一转换为 "HH:MM"，保证房间自然键的一致性
package timeslot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeClock 将各种格式的时间字符串规范化为 "HH:MM"
// 支持: "9:30" "09:30" "0930" "930" "09:30:00" "9:30 AM" "1:05pm" "13:05"
func NormalizeClock(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("empty time")
	}

	// 处理 am/pm 后缀
	meridiem := ""
	for _, suffix := range []string{"a.m.", "p.m.", "am", "pm", "a", "p"} {
		if strings.HasSuffix(s, suffix) {
			meridiem = suffix[:1]
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}

	var hour, minute int
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return "", fmt.Errorf("invalid time %q", raw)
		}
		if !isDigits(parts[0]) || len(parts[0]) > 2 {
			return "", fmt.Errorf("invalid hour in %q", raw)
		}
		if !isDigits(parts[1]) || len(parts[1]) != 2 {
			return "", fmt.Errorf("invalid minute in %q", raw)
		}
		if len(parts) == 3 {
			if !isDigits(parts[2]) || len(parts[2]) != 2 || parts[2] > "59" {
				return "", fmt.Errorf("invalid second in %q", raw)
			}
		}
		hour, _ = strconv.Atoi(parts[0])
		minute, _ = strconv.Atoi(parts[1])
	} else {
		// 军用时间 "0930" / "930"，或仅有小时 "9pm"
		if !isDigits(s) {
			return "", fmt.Errorf("invalid time %q", raw)
		}
		n, _ := strconv.Atoi(s)
		switch {
		case len(s) <= 2:
			hour = n
		case len(s) <= 4:
			hour, minute = n/100, n%100
		default:
			return "", fmt.Errorf("invalid time %q", raw)
		}
	}

	switch meridiem {
	case "a":
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("invalid 12-hour time %q", raw)
		}
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("invalid 12-hour time %q", raw)
		}
		if hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("time out of range %q", raw)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// isDigits 非空且只含 ASCII 数字，符号和空格都不接受
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// dayCodes 课程目录中的星期字母 -> 1(周一)..7(周日)
var dayCodes = map[string]int{
	"M": 1,
	"T": 2,
	"W": 3,
	"H": 4,
	"F": 5,
	"S": 6,
	"U": 7,
}

// DayFromCode 将课程目录的星期字母转换为 1-7
func DayFromCode(code string) (int, error) {
	day, ok := dayCodes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, fmt.Errorf("unknown meeting day code %q", code)
	}
	return day, nil
}

// ValidDay 星期是否在 [1,7] 范围内
func ValidDay(day int) bool {
	return day >= 1 && day <= 7
}

// NextUTCMidnight 返回 t 之后最近的 UTC 零点
func NextUTCMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
