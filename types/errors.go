package types

import "errors"

// 计算错误类型, 调用方通过 errors.Is 判定
var (
	ErrInvalidInput   = errors.New("invalid input")    // 阻抗 电阻 电压等参数非法
	ErrDivisionByZero = errors.New("division by zero") // 阻抗和为零
	ErrInvalidSetting = errors.New("invalid setting")  // 启动电流或时间整定非正
)
