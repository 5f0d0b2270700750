package utils

import (
	"fmt"
	"relaycalc/phasor"
	"relaycalc/types"
	"strconv"
	"strings"
)

// NetList 一行网表卡片拆分后的字段
type NetList []string

// Fields 拆分一行, 去掉行尾 # 注释
func Fields(line string) NetList {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return NetList(strings.Fields(line))
}

// FromAnySlice 将 []any 转换为 NetList 类型
// any 只能是基础类型, 不考虑结构体的解析
func FromAnySlice(slice []any) NetList {
	result := make(NetList, len(slice))
	for i, v := range slice {
		result[i] = anyToString(v)
	}
	return result
}

// anyToString 将任意基础类型转换为字符串
func anyToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case phasor.Phasor:
		return strings.Trim(strconv.FormatComplex(val.Complex(), 'g', -1, 128), "()")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

// String 还原为一行
func (value NetList) String() string { return strings.Join(value, " ") }

// SeparationPrick 分离卡片名与编号, 如 RELAY2 -> ("RELAY", 2)
func (value NetList) SeparationPrick(i int) (typeName string, id int) {
	if i >= len(value) {
		return "", 0
	}
	nameStr := strings.ToUpper(value[i])
	for i, char := range nameStr {
		if char >= '0' && char <= '9' {
			typeName = nameStr[:i]
			id, _ = strconv.Atoi(nameStr[i:])
			break
		}
	}
	if typeName == "" {
		typeName = nameStr
	}
	return typeName, id
}

// errField 字段错误
func (value NetList) errField(i int, what string) error {
	return fmt.Errorf("%q field %d (%s): %w", value.String(), i, what, types.ErrInvalidInput)
}

// Float64 解析必填浮点数
func (value NetList) Float64(i int) (float64, error) {
	if i >= len(value) {
		return 0, value.errField(i, "missing number")
	}
	v, err := strconv.ParseFloat(value[i], 64)
	if err != nil {
		return 0, value.errField(i, err.Error())
	}
	return v, nil
}

// ParseFloat64 解析可选浮点数, 字段缺失时取默认值
func (value NetList) ParseFloat64(i int, defaultValue float64) (float64, error) {
	if i >= len(value) {
		return defaultValue, nil
	}
	return value.Float64(i)
}

// ParseInt 解析可选整数, 字段缺失时取默认值
func (value NetList) ParseInt(i int, defaultValue int) (int, error) {
	if i >= len(value) {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value[i])
	if err != nil {
		return 0, value.errField(i, "integer expected")
	}
	return v, nil
}

// Phasor 解析必填复数, 接受 1+5i 1+5j 或纯实数
func (value NetList) Phasor(i int) (phasor.Phasor, error) {
	if i >= len(value) {
		return phasor.Zero, value.errField(i, "missing complex")
	}
	p, err := ParsePhasor(value[i])
	if err != nil {
		return phasor.Zero, value.errField(i, err.Error())
	}
	return p, nil
}

// ParseString 安全获取字符串
func (value NetList) ParseString(i int, defaultValue string) string {
	if i < len(value) {
		return value[i]
	}
	return defaultValue
}

// ParsePhasor 解析复数文本, j 视同 i
func ParsePhasor(s string) (phasor.Phasor, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "j", "i")
	c, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return phasor.Zero, err
	}
	return phasor.FromComplex(c), nil
}
