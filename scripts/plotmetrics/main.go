/*plotmetrics renders the per-step metrics table written by a solver run
into time-history plots: step size, CFL number, divergence before and
after projection, and Poisson residual.

Usage:

	plotmetrics -Metrics metrics.txt -Out run1
*/
package main

import (
	"flag"
	"fmt"
	"log"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/phil-mansfield/table"
)

// Column indices of the metrics table, matching sim.MetricsColumns.
const (
	timeCol = 1
	dtCol   = 2

	maxDivPreCol  = 4
	maxDivPostCol = 5

	cflCol      = 8
	residualCol = 9
	energyCol   = 10
)

func main() {
	var metricsFile, outPrefix string
	flag.StringVar(&metricsFile, "Metrics", "",
		"Metrics table written by a solver run.")
	flag.StringVar(&outPrefix, "Out", "metrics",
		"Prefix of the generated image files.")
	flag.Parse()

	if metricsFile == "" {
		log.Fatal("The -Metrics flag must be given. Try the -help flag.")
	}

	colIdxs := []int{
		timeCol, dtCol, maxDivPreCol, maxDivPostCol,
		cflCol, residualCol, energyCol,
	}
	cols, err := table.ReadTable(metricsFile, colIdxs, nil)
	if err != nil {
		log.Fatalf("Error reading %s: %s", metricsFile, err.Error())
	}
	ts, dts := cols[0], cols[1]
	divPre, divPost := cols[2], cols[3]
	cfls, residuals, energies := cols[4], cols[5], cols[6]

	plt.Reset()

	plt.Figure()
	plt.Plot(ts, dts, "b", plt.LW(2))
	plt.XLabel(`$t$`, plt.FontSize(16))
	plt.YLabel(`$\Delta t$`, plt.FontSize(16))
	plt.YScale("log")
	plt.SaveFig(fmt.Sprintf("%s_dt.png", outPrefix))

	plt.Figure()
	plt.Plot(ts, cfls, "g", plt.LW(2))
	plt.XLabel(`$t$`, plt.FontSize(16))
	plt.YLabel("CFL", plt.FontSize(16))
	plt.SaveFig(fmt.Sprintf("%s_cfl.png", outPrefix))

	plt.Figure()
	plt.Plot(ts, divPre, "r", plt.LW(2))
	plt.Plot(ts, divPost, "b", plt.LW(2))
	plt.XLabel(`$t$`, plt.FontSize(16))
	plt.YLabel(`$\max |\nabla \cdot u|$`, plt.FontSize(16))
	plt.YScale("log")
	plt.SaveFig(fmt.Sprintf("%s_div.png", outPrefix))

	plt.Figure()
	plt.Plot(ts, residuals, "k", plt.LW(2))
	plt.XLabel(`$t$`, plt.FontSize(16))
	plt.YLabel("Poisson residual", plt.FontSize(16))
	plt.YScale("log")
	plt.SaveFig(fmt.Sprintf("%s_residual.png", outPrefix))

	plt.Figure()
	plt.Plot(ts, energies, "m", plt.LW(2))
	plt.XLabel(`$t$`, plt.FontSize(16))
	plt.YLabel("Kinetic energy", plt.FontSize(16))
	plt.SaveFig(fmt.Sprintf("%s_energy.png", outPrefix))

	plt.Execute()
}
