// Command optimize searches swarm parameters with CMA-ES for a field that
// tracks its swirl targets closely without particles piling up.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/swirl/config"
)

type options struct {
	configPath string
	outputDir  string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 1800, "Simulation duration per run in ticks")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(opts); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

// evalLog appends one CSV row per evaluation.
type evalLog struct {
	file *os.File
	w    *csv.Writer
}

func newEvalLog(path string, params *ParamVector) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	header := []string{"eval", "fitness", "tracking", "overlap", "stability"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	l := &evalLog{file: f, w: csv.NewWriter(f)}
	return l, l.write(header)
}

func (l *evalLog) write(row []string) error {
	if err := l.w.Write(row); err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

func (l *evalLog) record(n int, fitness float64, parts fitnessParts, values []float64) error {
	row := []string{strconv.Itoa(n)}
	for _, v := range append([]float64{fitness, parts.Tracking, parts.Overlap, parts.Stability}, values...) {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	return l.write(row)
}

func (l *evalLog) Close() error {
	l.w.Flush()
	return l.file.Close()
}

func run(opts options) error {
	if opts.outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(opts.maxTicks), seeds, config.Cfg())

	evalCSV, err := newEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"), params)
	if err != nil {
		return err
	}
	defer evalCSV.Close()

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}

	evals := 0
	best := struct {
		fitness float64
		values  []float64
	}{fitness: 1e9}
	start := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			parts := evaluator.LastParts()
			evals++

			if fitness < best.fitness {
				best.fitness = fitness
				best.values = append(best.values[:0], values...)
			}
			if err := evalCSV.record(evals, fitness, parts, values); err != nil {
				slog.Warn("eval log write failed", "error", err)
			}

			elapsed := time.Since(start)
			eta := time.Duration(opts.maxEvals-evals) * (elapsed / time.Duration(evals))
			slog.Info("eval",
				"n", evals,
				"fitness", fitness,
				"tracking", parts.Tracking,
				"overlap", parts.Overlap,
				"stability", parts.Stability,
				"best", best.fitness,
				"elapsed", elapsed.Round(time.Second),
				"eta", eta.Round(time.Second),
			)
			return fitness
		},
	}

	slog.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", popSize,
		"max_evals", opts.maxEvals,
		"seeds", opts.seeds,
		"ticks", opts.maxTicks,
	)

	result, err := optimize.Minimize(problem,
		params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}
	if best.values == nil && result != nil {
		best.values = params.Clamp(params.Denormalize(result.X))
	}
	if best.values == nil {
		return fmt.Errorf("no evaluations completed")
	}

	attrs := []any{"evals", evals, "duration", time.Since(start).Round(time.Second), "fitness", best.fitness}
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Name, best.values[i])
	}
	slog.Info("optimization complete", attrs...)

	bestCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(bestCfg, best.values)

	out := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", out)
	return nil
}
