// Package server 以 HTTP 请求/响应形式提供计算接口, 无会话状态.
package server

import (
	"errors"
	"io"
	"net/http"
	"relaycalc"
	"relaycalc/chart"
	"relaycalc/ct"
	"relaycalc/curve"
	"relaycalc/fault"
	"relaycalc/types"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 请求编号头
const RequestIDHeader = "X-Request-ID"

// Server HTTP 服务
type Server struct {
	router *gin.Engine
}

// New 创建服务并注册路由
func New() *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestID())
	s := &Server{router: r}
	api := r.Group("/api")
	{
		api.POST("/fault", s.solveFault)
		api.POST("/trip", s.evaluateTrip)
		api.POST("/curve", s.sampleCurve)
		api.POST("/ct", s.scaleCT)
		api.POST("/selectivity", s.selectivity)
		api.POST("/study", s.runStudy)
		api.POST("/chart", s.chart)
	}
	return s
}

// Handler 路由处理器
func (s *Server) Handler() http.Handler { return s.router }

// Run 监听地址
func (s *Server) Run(addr string) error { return s.router.Run(addr) }

// requestID 为每个请求分配编号
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// fail 计算错误为 422, 请求格式错误为 400
func fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	kind := "bad_request"
	switch {
	case errors.Is(err, types.ErrDivisionByZero):
		status, kind = http.StatusUnprocessableEntity, "division_by_zero"
	case errors.Is(err, types.ErrInvalidSetting):
		status, kind = http.StatusUnprocessableEntity, "invalid_setting"
	case errors.Is(err, types.ErrInvalidInput):
		status, kind = http.StatusUnprocessableEntity, "invalid_input"
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// FaultRequest 故障计算请求
type FaultRequest struct {
	Network fault.NetworkParameters `json:"network"`
	Fault   string                  `json:"fault"` // 3P, PP-BC, PG-A ...
}

// FaultResponse 故障计算结果
type FaultResponse struct {
	Fault      string                `json:"fault"`
	Quantities fault.PhaseQuantities `json:"quantities"`
	Sequence   fault.Sequence        `json:"sequence"`
	VoltageSeq fault.Sequence        `json:"voltageSequence"`
}

func (s *Server) solveFault(c *gin.Context) {
	var req FaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	ft, err := fault.ParseFaultType(req.Fault, "")
	if err != nil {
		fail(c, err)
		return
	}
	q, err := fault.Solve(req.Network, ft)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FaultResponse{
		Fault:      ft.String(),
		Quantities: q,
		Sequence:   fault.SequenceCurrents(q),
		VoltageSeq: fault.SequenceVoltages(q),
	})
}

// TripRequest 动作判定请求
type TripRequest struct {
	Curve   curve.Spec `json:"curve"`
	Current float64    `json:"current"`
}

func (s *Server) evaluateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	e, err := curve.Evaluate(req.Curve, req.Current)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// CurveRequest 曲线采样请求
type CurveRequest struct {
	Curve   curve.Spec          `json:"curve"`
	Options curve.SampleOptions `json:"options"`
}

func (s *Server) sampleCurve(c *gin.Context) {
	var req CurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	points, err := curve.Sample(req.Curve, req.Options)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": points})
}

// CTRequest 互感器换算请求
type CTRequest struct {
	CT      ct.Spec `json:"ct"`
	Primary float64 `json:"primary"`
}

func (s *Server) scaleCT(c *gin.Context) {
	var req CTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	r, err := ct.ScaleToSecondary(req.CT, req.Primary)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// SelectivityRequest 上下级配合请求
type SelectivityRequest struct {
	Upstream   curve.Spec `json:"upstream"`
	Downstream curve.Spec `json:"downstream"`
	Current    float64    `json:"current"`
}

func (s *Server) selectivity(c *gin.Context) {
	var req SelectivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	r, err := curve.Selectivity(req.Upstream, req.Downstream, req.Current)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// study 请求体为 netlist 文本, Content-Type 含 yaml 时按 YAML 解析
func study(c *gin.Context) (*relaycalc.Report, error) {
	st := relaycalc.NewStudy()
	body := io.LimitReader(c.Request.Body, 1<<20)
	var err error
	if strings.Contains(c.ContentType(), "yaml") {
		err = st.DecodeYAML(body)
	} else {
		err = st.Parse(body)
	}
	if err != nil {
		return nil, err
	}
	return st.Run()
}

func (s *Server) runStudy(c *gin.Context) {
	r, err := study(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) chart(c *gin.Context) {
	r, err := study(c)
	if err != nil {
		fail(c, err)
		return
	}
	ch := &chart.Charts{Record: *chart.FromReport(r)}
	ch.Handler(c.Writer, c.Request)
}
