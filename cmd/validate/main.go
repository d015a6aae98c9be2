// Command validate loads an ENEM school CSV with the dashboard loader and
// reports what survived cleaning: kept and dropped rows, a per-region table
// of mean MEDIA, and warnings for out-of-range scores or coordinates that
// fall outside Minas Gerais.
//
// Usage:
//
//	go run ./cmd/validate -csv "Dados_ENEM_2024_MG - Dados_Tratados.csv"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/adapter/csvfile"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/observability"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	path := flag.String("csv", "", "path to the ENEM school CSV")
	logLevel := flag.String("log-level", "warn", "loader log level (debug lists every dropped row)")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(context.Background(), *path, *logLevel, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, path, logLevel string, out io.Writer) int {
	logger := observability.NewLogger(os.Stderr, logLevel, "text")
	loader := csvfile.NewLoader(logger, observability.NewUnregisteredMetrics())

	fmt.Fprintln(out, "=== ENEM School Data Validation ===")
	fmt.Fprintln(out)

	ds, err := loader.Load(ctx, path)
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "File:    %s\n", ds.Path)
	fmt.Fprintf(out, "Kept:    %d\n", len(ds.Schools))
	fmt.Fprintf(out, "Dropped: %d\n", ds.Dropped)
	fmt.Fprintln(out)

	if len(ds.Schools) == 0 {
		color.New(color.FgRed).Fprintln(out, "No rows survived cleaning.")
		return 1
	}

	color.New(color.FgCyan).Fprintln(out, "Schools per regional (MEDIA)")
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Regional", "Escolas", "Média", "Mínimo", "Máximo"})
	for _, rs := range domain.Summarize(ds.Schools, domain.IndicatorMedia) {
		table.Append([]string{
			rs.Regional,
			fmt.Sprintf("%d", rs.Schools),
			fmt.Sprintf("%.2f", rs.Mean),
			fmt.Sprintf("%.2f", rs.Min),
			fmt.Sprintf("%.2f", rs.Max),
		})
	}
	table.Render()
	fmt.Fprintln(out)

	phases := []*phase{
		checkScoreRange(ds.Schools),
		checkCoordinates(ds.Schools),
	}
	for _, p := range phases {
		status := color.GreenString("OK")
		if !p.passed() {
			status = color.YellowString("WARN (%d)", len(p.warnings))
		}
		fmt.Fprintf(out, "  %-28s %s\n", p.name, status)
	}
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, w := range p.warnings {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, w)
		}
	}

	fmt.Fprintln(out)
	color.New(color.FgGreen).Fprintln(out, "Dataset is usable.")
	return 0
}
