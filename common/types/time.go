package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateTimeFormat 日期时间格式
const DateTimeFormat = "2006-01-02 15:04:05"

// DateTime 自定义时间类型，JSON序列化为 "yyyy-MM-dd HH:mm:ss" 格式
type DateTime time.Time

// Now 返回当前时间的DateTime
func Now() DateTime {
	return DateTime(time.Now())
}

// NewDateTime 从time.Time创建DateTime
func NewDateTime(t time.Time) DateTime {
	return DateTime(t)
}

// Time 转换为time.Time
func (t DateTime) Time() time.Time {
	return time.Time(t)
}

// IsZero 判断是否为零值
func (t DateTime) IsZero() bool {
	return time.Time(t).IsZero()
}

// UnixMilli 毫秒时间戳
func (t DateTime) UnixMilli() int64 {
	return time.Time(t).UnixMilli()
}

// String 实现Stringer接口
func (t DateTime) String() string {
	return time.Time(t).Format(DateTimeFormat)
}

// MarshalJSON 实现json.Marshaler接口
func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, t.String())), nil
}

// UnmarshalJSON 实现json.Unmarshaler接口
func (t *DateTime) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" || string(data) == `""` {
		*t = DateTime{}
		return nil
	}

	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	formats := []string{DateTimeFormat, time.RFC3339, time.RFC3339Nano}
	var parseErr error
	for _, format := range formats {
		parsed, err := time.ParseInLocation(format, str, time.Local)
		if err == nil {
			*t = DateTime(parsed)
			return nil
		}
		parseErr = err
	}
	return fmt.Errorf("无法解析时间格式: %s, 错误: %v", str, parseErr)
}

// Value 实现driver.Valuer接口（用于GORM写入数据库）
func (t DateTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan 实现sql.Scanner接口（用于GORM从数据库读取）
func (t *DateTime) Scan(value any) error {
	if value == nil {
		*t = DateTime{}
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		*t = DateTime(v)
		return nil
	case string:
		parsed, err := time.ParseInLocation(DateTimeFormat, v, time.Local)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, v)
			if err != nil {
				return fmt.Errorf("无法解析时间字符串: %s", v)
			}
		}
		*t = DateTime(parsed)
		return nil
	case []byte:
		return t.Scan(string(v))
	default:
		return fmt.Errorf("无法将 %T 转换为 DateTime", value)
	}
}

// GormDataType 实现GORM的DataType接口
func (t DateTime) GormDataType() string {
	return "datetime"
}
