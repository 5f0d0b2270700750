package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"relaycalc"
	"relaycalc/chart"
	"relaycalc/server"
	"strings"
	"text/tabwriter"
)

func main() {
	var (
		studyFile = flag.String("study", "", "netlist (.cir) 或 YAML (.yaml) 整定校验文件")
		asJSON    = flag.Bool("json", false, "以 JSON 输出结果")
		htmlFile  = flag.String("html", "", "输出 echarts 页面")
		plotFile  = flag.String("plot", "", "输出曲线图片 (.png .svg .pdf)")
		export    = flag.String("export", "", "导出 netlist")
		serve     = flag.String("serve", "", "以 HTTP 服务方式运行, 如 :8080")
	)
	flag.Parse()
	log.SetFlags(0)

	if *serve != "" {
		log.Printf("listening on %s", *serve)
		log.Fatal(server.New().Run(*serve))
	}
	if *studyFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	st := relaycalc.NewStudy()
	var err error
	switch strings.ToLower(filepath.Ext(*studyFile)) {
	case ".yaml", ".yml":
		err = st.LoadYAML(*studyFile)
	default:
		err = st.Load(*studyFile)
	}
	if err != nil {
		log.Fatalf("load %s: %v", *studyFile, err)
	}
	report, err := st.Run()
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal(err)
		}
	} else {
		printReport(report)
	}

	rec := chart.FromReport(report)
	if *htmlFile != "" {
		if err := (&chart.Charts{Record: *rec}).Save(*htmlFile); err != nil {
			log.Fatal(err)
		}
	}
	if *plotFile != "" {
		if err := rec.SavePlot(*plotFile); err != nil {
			log.Fatal(err)
		}
	}
	if *export != "" {
		if err := st.Export(*export); err != nil {
			log.Fatal(err)
		}
	}
	if !report.Coordinated() {
		os.Exit(1)
	}
}

// printReport 表格输出
func printReport(r *relaycalc.Report) {
	fmt.Printf("fault %s  max %s-phase %.1f A\n\n", r.Fault, r.FaultPhase, r.FaultCurrent)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	q := r.Quantities
	fmt.Fprintln(w, "phase\tI\tU")
	for i, name := range []string{"A", "B", "C"} {
		fmt.Fprintf(w, "%s\t%v\t%v\n", name, q.Currents()[i], q.Voltages()[i])
	}
	fmt.Fprintf(w, "I0/I1/I2\t%v / %v / %v\t\n", r.Sequence.Zero, r.Sequence.Positive, r.Sequence.Negative)
	fmt.Fprintf(w, "U0/U1/U2\t\t%v / %v / %v\n\n", r.VoltageSeq.Zero, r.VoltageSeq.Positive, r.VoltageSeq.Negative)
	w.Flush()

	fmt.Fprintln(w, "relay\tcurve\tapplied\tCT\ttrip")
	for _, res := range r.Relays {
		ctInfo := "-"
		if res.Secondary != nil {
			ctInfo = res.Secondary.Warning.String()
			if ctInfo == "" {
				ctInfo = "ok"
			}
		}
		trip := "no trip"
		if res.Trip.IsTrip {
			trip = fmt.Sprintf("%.3f s (M=%.2f)", res.Trip.TripTime, res.Trip.Multiplicity)
		}
		fmt.Fprintf(w, "%s\t%v\t%.3f A\t%s\t%s\n", res.Relay.Label(), res.Relay.Curve, res.Applied, ctInfo, trip)
	}
	w.Flush()

	for _, p := range r.Pairs {
		state := "OK"
		if !p.Coordinated {
			state = "MISCOORDINATED"
		}
		fmt.Printf("\nRELAY%d -> RELAY%d margin %.3f s %s", p.DownstreamID, p.UpstreamID, p.Margin, state)
	}
	fmt.Println()
}
