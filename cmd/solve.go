package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/andig/evopt/api"
	"github.com/andig/evopt/core/milp"
	"github.com/andig/evopt/core/optimizer"
	"github.com/andig/evopt/infra/logger"
	"github.com/andig/evopt/infra/solver"
)

var (
	solveFile   string
	solveJSON   bool
	chartWidth  int
	chartHeight int
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a charge schedule request from a file",
	Long:  "Solve reads an optimization request (JSON) and prints the resulting schedule as tables and charts. Without --file the built-in example instance is solved.",
	RunE:  solve,
}

func init() {
	solveCmd.Flags().StringVarP(&solveFile, "file", "f", "", "request file (JSON), defaults to the built-in example")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "print the raw result as JSON")
	solveCmd.Flags().IntVar(&chartWidth, "cw", 120, "chart width")
	solveCmd.Flags().IntVar(&chartHeight, "ch", 20, "chart height")
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := api.ExampleRequest()
	if solveFile != "" {
		data, err := os.ReadFile(solveFile)
		if err != nil {
			return fmt.Errorf("read request: %w", err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("parse request: %w", err)
		}
	}

	opt, err := optimizer.New(optimizer.Config{
		Strategy:   req.Strategy,
		Batteries:  req.Batteries,
		TimeSeries: req.TimeSeries,
		EtaC:       req.EtaC,
		EtaD:       req.EtaD,
		BigM:       req.BigM,
		Solver:     solver.New(solver.Config{}, logger.New("solver")),
		Logger:     logger.New("solve"),
	})
	if err != nil {
		return err
	}

	res, err := opt.Solve(ctx)
	if err != nil {
		return err
	}

	if solveJSON {
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}

	if res.Status != milp.StatusOptimal {
		return fmt.Errorf("optimization failed: %s", res.Status)
	}

	printInstance(req)
	printSchedule(req, res)
	plotSchedule(req, res)
	return nil
}

func printInstance(req api.OptimizeRequest) {
	table := tablewriter.NewTable(os.Stdout, rightAligned())
	headers := []string{"Hour", "Forecast", "TotalDemand", "GridImportCost", "GridExportCost"}
	for i, bat := range req.Batteries {
		if lo.Sum(bat.SGoal) > 0 {
			headers = append(headers, fmt.Sprintf("Bat %d Goal", i))
		}
	}
	table.Header(headers)

	for t := range req.TimeSeries.Ft {
		row := []string{
			strconv.Itoa(t + 1),
			str(req.TimeSeries.Ft[t]),
			str(req.TimeSeries.Gt[t]),
			str2(req.TimeSeries.PN[t] * 1000),
			str2(req.TimeSeries.PE[t] * 1000),
		}
		for _, bat := range req.Batteries {
			if lo.Sum(bat.SGoal) > 0 {
				row = append(row, str(bat.SGoal[t]))
			}
		}
		table.Append(row)
	}
	table.Render()
}

func printSchedule(req api.OptimizeRequest, res *optimizer.Result) {
	table := tablewriter.NewTable(os.Stdout, rightAligned())
	headers := []string{"Hour", "GridImport", "GridExport"}
	for i := range res.Batteries {
		headers = append(headers,
			fmt.Sprintf("Bat %d Cha", i),
			fmt.Sprintf("Bat %d Dis", i),
			fmt.Sprintf("Bat %d Soc", i),
		)
	}
	table.Header(headers)

	for t := range res.FlowDirection {
		row := []string{
			strconv.Itoa(t + 1),
			str(res.GridImport[t]),
			str(res.GridExport[t]),
		}
		for _, b := range res.Batteries {
			row = append(row, str(b.ChargingPower[t]), str(b.DischargingPower[t]), str(b.StateOfCharge[t]))
		}
		table.Append(row)
	}
	table.Render()
}

func plotSchedule(req api.OptimizeRequest, res *optimizer.Result) {
	power := [][]float64{res.GridImport, res.GridExport, req.TimeSeries.Ft}
	powerSeries := []string{"Grid Import", "Grid Export", "Forecast"}

	var soc [][]float64
	var socSeries []string

	for i, b := range res.Batteries {
		powerSeries = append(powerSeries,
			fmt.Sprintf("Bat %d Charge Power", i+1),
			fmt.Sprintf("Bat %d Discharge Power", i+1),
		)
		power = append(power, b.ChargingPower, b.DischargingPower)

		if req.Batteries[i].SMax > 0 {
			socSeries = append(socSeries, fmt.Sprintf("Bat %d SoC %%", i+1))
			soc = append(soc, lo.Map(b.StateOfCharge, func(v float64, _ int) float64 {
				return v / req.Batteries[i].SMax * 100
			}))
		}
	}

	if len(res.FlowDirection) == 0 {
		return
	}

	if len(soc) > 0 {
		fmt.Println(asciigraph.PlotMany(soc, asciigraph.Precision(1),
			asciigraph.Width(chartWidth),
			asciigraph.Height(chartHeight/2),
			asciigraph.Caption("Optimization - SoC"),
			asciigraph.SeriesLegends(socSeries...),
		))
	}

	fmt.Println(asciigraph.PlotMany(power, asciigraph.Precision(0),
		asciigraph.Width(chartWidth),
		asciigraph.Height(chartHeight),
		asciigraph.Caption("Optimization - Power Flow"),
		asciigraph.SeriesLegends(powerSeries...),
	))
}

func rightAligned() tablewriter.Option {
	return tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
	})
}

func str(f float64) string {
	if f == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f", f)
}

func str2(f float64) string {
	if f == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", f)
}
