package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/engagecharts/internal/model"
)

// Write encodes records as CSV with the standard header. NaN likes are
// written as "NaN" so they load back as unusable rather than as zero.
func Write(w io.Writer, records []model.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(requiredColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		likes := strconv.FormatFloat(r.Likes, 'f', -1, 64)
		if err := writer.Write([]string{r.Platform, r.PostType, r.AgeGroup, r.Date, likes}); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
