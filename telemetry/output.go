package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/swirl/config"
)

// csvSink appends gocsv rows to one file, writing the header with the
// first row only.
type csvSink struct {
	name   string
	file   *os.File
	header bool
}

func openSink(dir, name string) (*csvSink, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink{name: name, file: f}, nil
}

// write appends rows, a slice of csv-tagged structs.
func (s *csvSink) write(rows any) error {
	var err error
	if s.header {
		err = gocsv.MarshalWithoutHeaders(rows, s.file)
	} else {
		err = gocsv.Marshal(rows, s.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	s.header = true
	return nil
}

func (s *csvSink) close() error {
	if s == nil {
		return nil
	}
	return s.file.Close()
}

// OutputManager writes a run's telemetry.csv, perf.csv and config.yaml into
// one directory. A nil manager is disabled and every method is a no-op.
type OutputManager struct {
	dir       string
	telemetry *csvSink
	perf      *csvSink
}

// NewOutputManager creates dir and opens the CSV files. An empty dir
// disables output and returns a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tel, err := openSink(dir, "telemetry.csv")
	if err != nil {
		return nil, err
	}
	perf, err := openSink(dir, "perf.csv")
	if err != nil {
		tel.close()
		return nil, err
	}
	return &OutputManager{dir: dir, telemetry: tel, perf: perf}, nil
}

// WriteConfig saves the configuration the run used.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf appends a perf window ending at windowEnd to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// Dir returns the output directory, empty when disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes both CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close())
}
