// Package dataset loads engagement records from delimited text.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// Column names expected in the dataset header.
const (
	ColPlatform = "Platform"
	ColPostType = "PostType"
	ColAgeGroup = "AgeGroup"
	ColDate     = "Date"
	ColLikes    = "Likes"
)

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("missing required column")

var requiredColumns = []string{ColPlatform, ColPostType, ColAgeGroup, ColDate, ColLikes}

// LoadFile reads a CSV dataset from path.
func LoadFile(ctx context.Context, path string) (model.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()
	ds, err := Load(ctx, file)
	if err != nil {
		return model.Dataset{}, err
	}
	ds.Source = path
	return ds, nil
}

// Load reads a CSV dataset from r. The first row is the header; column
// names are matched case-insensitively and extra columns are ignored.
func Load(ctx context.Context, r io.Reader) (model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Dataset{}, fmt.Errorf("dataset is empty")
		}
		return model.Dataset{}, fmt.Errorf("failed to read header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return model.Dataset{}, err
	}

	ds := model.Dataset{}
	row := 1
	for {
		if err := ctx.Err(); err != nil {
			return model.Dataset{}, err
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return model.Dataset{}, fmt.Errorf("failed to read row %d: %w", row, err)
		}
		if isBlank(fields) {
			continue
		}
		rec, cerr := NewRecord(row, func(col string) string {
			i := index[col]
			if i >= len(fields) {
				return ""
			}
			return fields[i]
		})
		if cerr != nil {
			ds.CoercionErrors = append(ds.CoercionErrors, *cerr)
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// NewRecord builds a record from a column accessor, coercing Likes. A
// CoercionError is returned alongside the record when Likes is unusable;
// the record keeps NaN likes in that case.
func NewRecord(row int, get func(col string) string) (model.Record, *model.CoercionError) {
	rawLikes := get(ColLikes)
	likes, ok := CoerceLikes(rawLikes)
	rec := model.Record{
		Platform: strings.TrimSpace(get(ColPlatform)),
		PostType: strings.TrimSpace(get(ColPostType)),
		AgeGroup: strings.TrimSpace(get(ColAgeGroup)),
		Date:     strings.TrimSpace(get(ColDate)),
		Likes:    likes,
	}
	if !ok {
		return rec, &model.CoercionError{Row: row, Field: ColLikes, Value: rawLikes}
	}
	return rec, nil
}

// CoerceLikes converts a raw Likes field to a number. Values that are not
// finite non-negative numbers yield NaN and false. An empty field counts as
// zero likes.
func CoerceLikes(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return math.NaN(), false
	}
	return v, true
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		for _, col := range requiredColumns {
			if _, seen := index[col]; seen {
				continue
			}
			if strings.EqualFold(name, col) {
				index[col] = i
			}
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
