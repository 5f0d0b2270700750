package relaycalc

import (
	"fmt"
	"io"
	"os"
	"relaycalc/ct"
	"relaycalc/curve"
	"relaycalc/fault"
	"relaycalc/utils"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// studyYAML YAML 文件结构, 阻抗以 "1+5i" 形式书写
type studyYAML struct {
	ID      string `yaml:"id,omitempty"`
	Network struct {
		LineVoltage     float64 `yaml:"lineVoltage"`
		Z1              string  `yaml:"z1"`
		Z0              string  `yaml:"z0"`
		FaultResistance float64 `yaml:"faultResistance,omitempty"`
	} `yaml:"network"`
	Fault  string              `yaml:"fault"`
	CTs    map[int]ct.Spec     `yaml:"cts,omitempty"`
	Relays []Relay             `yaml:"relays"`
	Sample curve.SampleOptions `yaml:"sample,omitempty"`
}

// LoadYAML 加载 YAML 格式数据
func (s *Study) LoadYAML(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.DecodeYAML(file)
}

// DecodeYAML 解析 YAML
func (s *Study) DecodeYAML(r io.Reader) error {
	var doc studyYAML
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decode study: %w", err)
	}
	if doc.ID != "" {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return fmt.Errorf("study id: %w", err)
		}
		s.ID = id
	}
	net := fault.NetworkParameters{
		LineVoltage:     doc.Network.LineVoltage,
		FaultResistance: doc.Network.FaultResistance,
	}
	var err error
	if net.Z1, err = (utils.NetList{doc.Network.Z1}).Phasor(0); err != nil {
		return fmt.Errorf("network z1: %w", err)
	}
	if net.Z0, err = (utils.NetList{doc.Network.Z0}).Phasor(0); err != nil {
		return fmt.Errorf("network z0: %w", err)
	}
	s.Network = net
	if s.Fault, err = fault.ParseFaultType(doc.Fault, ""); err != nil {
		return err
	}
	if doc.CTs != nil {
		s.CTs = doc.CTs
	}
	s.Relays = doc.Relays
	s.Sample = doc.Sample
	return s.Validate()
}
