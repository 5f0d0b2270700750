package chart

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"relaycalc"
	"strings"
	"testing"
)

func report(t *testing.T) *relaycalc.Report {
	t.Helper()
	s := relaycalc.NewStudy()
	if err := s.Load(filepath.Join("..", "testdata", "feeder.cir")); err != nil {
		t.Fatalf("加载失败 %s", err)
	}
	r, err := s.Run()
	if err != nil {
		t.Fatalf("计算失败 %s", err)
	}
	return r
}

func TestFromReport(t *testing.T) {
	rec := FromReport(report(t))
	if len(rec.Series) != 2 || len(rec.Marks) != 2 || len(rec.Phases) != 3 {
		t.Fatalf("记录内容不正确: %d %d %d", len(rec.Series), len(rec.Marks), len(rec.Phases))
	}
	if rec.Series[0].Name != "feeder" || rec.Series[1].Name != "incomer" {
		t.Errorf("曲线名称不正确: %s %s", rec.Series[0].Name, rec.Series[1].Name)
	}

	var buf bytes.Buffer
	if err := rec.Render(&buf); err != nil {
		t.Fatal(err)
	}
	var back Record
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if len(back.Series[0].Points) != len(rec.Series[0].Points) {
		t.Errorf("JSON 往返点数不一致")
	}
}

func TestChartsRender(t *testing.T) {
	c := &Charts{Record: *FromReport(report(t))}
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		t.Fatalf("页面生成失败 %s", err)
	}
	html := buf.String()
	for _, want := range []string{"时间-电流特性", "feeder", "incomer", "log"} {
		if !strings.Contains(html, want) {
			t.Errorf("页面缺少 %q", want)
		}
	}
}

func TestChartsSave(t *testing.T) {
	c := &Charts{Record: *FromReport(report(t))}
	name := filepath.Join(t.TempDir(), "study.html")
	if err := c.Save(name); err != nil {
		t.Fatalf("保存失败 %s", err)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "incomer") {
		t.Errorf("保存的页面不完整")
	}
	if err := c.Save(filepath.Join(t.TempDir(), "missing", "study.html")); err == nil {
		t.Errorf("目录不存在时应报错")
	}
}

func TestWritePlot(t *testing.T) {
	rec := FromReport(report(t))
	var buf bytes.Buffer
	if err := rec.WritePlot(&buf, "png"); err != nil {
		t.Fatalf("绘图失败 %s", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("输出不是 PNG")
	}
	if err := (&Record{}).WritePlot(&buf, "png"); err == nil {
		t.Errorf("空记录应报错")
	}
}
