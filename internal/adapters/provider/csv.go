package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/gridcast/internal/domain/dataset"
)

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// CSV reads a headered CSV file. Columns whose cells are not all numeric are
// dropped; empty numeric cells load as NaN. Rows are ordered by timestamp.
type CSV struct {
	Path string
}

// NewCSV returns a CSV provider for path.
func NewCSV(path string) *CSV {
	return &CSV{Path: path}
}

// Produce implements Provider.
func (c *CSV) Produce(ctx context.Context) (*dataset.Dataset, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(ctx, f)
}

// ReadCSV parses a dataset from r.
func ReadCSV(ctx context.Context, r io.Reader) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("%w: header: %v", ErrParseInput, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	tsIdx := -1
	for i, name := range header {
		if name == dataset.TimestampColumn {
			tsIdx = i
			break
		}
	}
	if tsIdx < 0 {
		return nil, dataset.ErrMissingTimestamp
	}

	var (
		stamps  []time.Time
		values  = make([][]float64, len(header))
		numeric = make([]bool, len(header))
	)
	for i := range numeric {
		numeric[i] = i != tsIdx
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParseInput, line, err)
		}
		ts, err := parseTimestamp(rec[tsIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParseInput, line, err)
		}
		stamps = append(stamps, ts)
		for i, cell := range rec {
			if !numeric[i] {
				continue
			}
			v, ok := parseNumber(cell)
			if !ok {
				numeric[i] = false
				values[i] = nil
				continue
			}
			values[i] = append(values[i], v)
		}
	}

	perm := make([]int, len(stamps))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool { return stamps[perm[a]].Before(stamps[perm[b]]) })

	sorted := make([]time.Time, len(stamps))
	for i, p := range perm {
		sorted[i] = stamps[p]
	}
	columns := make(map[string][]float64)
	var order []string
	for i, name := range header {
		if !numeric[i] {
			continue
		}
		col := make([]float64, len(perm))
		for j, p := range perm {
			col[j] = values[i][p]
		}
		columns[name] = col
		order = append(order, name)
	}
	return dataset.New(sorted, columns, order)
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
