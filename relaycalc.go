// Package relaycalc 继电保护整定计算: 故障计算, 电流互感器换算, 过流曲线动作判定和上下级配合.
package relaycalc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"relaycalc/ct"
	"relaycalc/curve"
	"relaycalc/fault"
	"relaycalc/types"
	"relaycalc/utils"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Relay 一台过流继电器
// CT 非零时整定值为二次值, 动作判定使用经该互感器换算后的二次电流
type Relay struct {
	ID    int        `json:"id" yaml:"id"`
	Name  string     `json:"name,omitempty" yaml:"name,omitempty"`
	Curve curve.Spec `json:"curve" yaml:",inline"`
	CT    int        `json:"ct,omitempty" yaml:"ct,omitempty"`
}

// Label 显示名称
func (r Relay) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("RELAY%d", r.ID)
}

// Study 一次整定校验: 等值网络 + 故障 + 由近及远排列的继电器
type Study struct {
	ID      uuid.UUID               `json:"id"`
	Network fault.NetworkParameters `json:"network"`
	Fault   fault.FaultType         `json:"-"`
	CTs     map[int]ct.Spec         `json:"cts,omitempty"`
	Relays  []Relay                 `json:"relays"`
	Sample  curve.SampleOptions     `json:"sample"`
}

// NewStudy 初始化
func NewStudy() *Study {
	return &Study{
		ID:    uuid.New(),
		Fault: fault.ThreePhase{},
		CTs:   map[int]ct.Spec{},
	}
}

// Load 加载 netlist 格式数据
func (s *Study) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.Parse(file)
}

// Parse 解析 netlist 卡片
func (s *Study) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		fields := utils.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		// 解析标记
		if fields[0][0] == '.' {
			if strings.EqualFold(fields[0], ".END") {
				break
			}
			continue
		}
		if err := s.card(fields); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return s.Validate()
}

// card 处理一张卡片
func (s *Study) card(f utils.NetList) (err error) {
	name, id := f.SeparationPrick(0)
	switch name {
	case "NET":
		net := fault.NetworkParameters{}
		if net.LineVoltage, err = f.Float64(1); err != nil {
			return err
		}
		if net.Z1, err = f.Phasor(2); err != nil {
			return err
		}
		if net.Z0, err = f.Phasor(3); err != nil {
			return err
		}
		if net.FaultResistance, err = f.ParseFloat64(4, 0); err != nil {
			return err
		}
		s.Network = net
	case "FAULT":
		s.Fault, err = fault.ParseFaultType(f.ParseString(1, ""), f.ParseString(2, ""))
		return err
	case "CT":
		spec := ct.Spec{}
		if spec.PrimaryRated, err = f.Float64(1); err != nil {
			return err
		}
		if spec.SecondaryRated, err = f.Float64(2); err != nil {
			return err
		}
		if spec.Connection, err = ct.ParseConnection(f.ParseString(3, "STAR")); err != nil {
			return err
		}
		if s.CTs == nil {
			s.CTs = map[int]ct.Spec{}
		}
		s.CTs[id] = spec
	case "RELAY":
		r := Relay{ID: id}
		if r.Curve.Family, err = curve.ParseFamily(f.ParseString(1, "")); err != nil {
			return err
		}
		if r.Curve.Pickup, err = f.Float64(2); err != nil {
			return err
		}
		if r.Curve.TimeSetting, err = f.Float64(3); err != nil {
			return err
		}
		for _, extra := range f[min(4, len(f)):] {
			if k, v, ok := strings.Cut(extra, "="); ok && strings.EqualFold(k, "NAME") {
				r.Name = v
				continue
			}
			n, ctID := (utils.NetList{extra}).SeparationPrick(0)
			if n != "CT" || ctID <= 0 {
				return fmt.Errorf("%s: unexpected field %q: %w", f[0], extra, types.ErrInvalidInput)
			}
			r.CT = ctID
		}
		s.Relays = append(s.Relays, r)
	case "SAMPLE":
		opt := curve.SampleOptions{}
		if opt.MaxCurrent, err = f.ParseFloat64(1, 0); err != nil {
			return err
		}
		if opt.Count, err = f.ParseInt(2, 0); err != nil {
			return err
		}
		switch spacing := strings.ToUpper(f.ParseString(3, "LOG")); spacing {
		case "LOG":
		case "LIN":
			opt.Linear = true
		default:
			return fmt.Errorf("sample spacing %q: %w", spacing, types.ErrInvalidInput)
		}
		s.Sample = opt
	default:
		return fmt.Errorf("unknown card %q: %w", f.String(), types.ErrInvalidInput)
	}
	return nil
}

// Validate 检查网络, 互感器和继电器整定
func (s *Study) Validate() error {
	if err := s.Network.Validate(); err != nil {
		return err
	}
	if s.Fault == nil {
		return fmt.Errorf("fault type missing: %w", types.ErrInvalidInput)
	}
	for id, spec := range s.CTs {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("CT%d: %w", id, err)
		}
	}
	seen := make(map[int]bool, len(s.Relays))
	for _, r := range s.Relays {
		if seen[r.ID] {
			return fmt.Errorf("duplicate relay id %d: %w", r.ID, types.ErrInvalidInput)
		}
		seen[r.ID] = true
		if err := r.Curve.Validate(); err != nil {
			return fmt.Errorf("%s: %w", r.Label(), err)
		}
		if _, ok := s.CTs[r.CT]; r.CT != 0 && !ok {
			return fmt.Errorf("%s refers to undefined CT%d: %w", r.Label(), r.CT, types.ErrInvalidInput)
		}
	}
	return nil
}

// Export 导出 netlist 格式数据
func (s *Study) Export(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.Write(file)
}

// Write 写出 netlist 卡片
func (s *Study) Write(w io.Writer) error {
	writer := bufio.NewWriter(w)
	line := func(v ...any) {
		writer.WriteString(utils.FromAnySlice(v).String())
		writer.WriteRune('\n')
	}
	fmt.Fprintf(writer, "# study %s\n", s.ID)
	n := s.Network
	line("NET", n.LineVoltage, n.Z1, n.Z0, n.FaultResistance)
	switch f := s.Fault.(type) {
	case fault.PhaseToPhase:
		line("FAULT", "PP", f.Pair)
	case fault.SinglePhaseToGround:
		line("FAULT", "PG", f.Phase)
	default:
		line("FAULT", "3P")
	}
	ids := make([]int, 0, len(s.CTs))
	for id := range s.CTs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		c := s.CTs[id]
		line(fmt.Sprintf("CT%d", id), c.PrimaryRated, c.SecondaryRated, c.Connection)
	}
	for _, r := range s.Relays {
		v := []any{fmt.Sprintf("RELAY%d", r.ID), r.Curve.Family, r.Curve.Pickup, r.Curve.TimeSetting}
		if r.CT != 0 {
			v = append(v, fmt.Sprintf("CT%d", r.CT))
		}
		if r.Name != "" {
			v = append(v, "NAME="+r.Name)
		}
		line(v...)
	}
	if o := s.Sample; o.MaxCurrent != 0 || o.Count != 0 || o.Linear {
		spacing := "LOG"
		if o.Linear {
			spacing = "LIN"
		}
		line("SAMPLE", o.MaxCurrent, o.Count, spacing)
	}
	writer.WriteString(".END\n")
	return writer.Flush()
}
