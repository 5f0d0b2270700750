package types

// 默认参数常量定义
var (
	Tolerance      = 1e-9  // 浮点零值判定容差
	TripEpsilon    = 1e-9  // 反时限分母下限, 低于该值视为渐近线附近
	LongTripTime   = 1e6   // 渐近线附近返回的动作时间(秒)
	GradingMargin  = 0.3   // 上下级配合的最小时间级差(秒)
	CTFloorRatio   = 0.05  // 二次电流低于额定值该比例时给出测量下限提示
	CTSaturation   = 1.2   // 二次电流高于额定值该比例时给出饱和风险提示
	SampleCount    = 200   // 曲线采样默认点数
	SampleMaxCount = 10000 // 曲线采样点数上限
	SampleStart    = 1.01  // 曲线采样起点(倍数)
	SampleMinTime  = 0.01  // 图表可见时间下限(秒)
	SampleMaxTime  = 100.0 // 图表可见时间上限(秒)
	SampleMaxRatio = 20.0  // 未指定最大电流时的采样终点(倍数)
)

// NoTrip 不动作时的动作时间标记
const NoTrip float64 = -1
