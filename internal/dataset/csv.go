package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// LoadCSV loads a set from a csv file where the last column holds the target
// and all other columns hold the input vector.
// Lines starting with '#' are skipped, a header row is skipped if requested.
func LoadCSV(path string, header bool) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("could not open file '%s': %w", path, err)
	}
	defer f.Close()
	s, err := ReadCSV(f, header)
	if err != nil {
		return Set{}, fmt.Errorf("could not read file '%s': %w", path, err)
	}
	log.Info().
		Str("path", path).
		Int("samples", s.Len()).
		Msg("loaded data set")
	return s, nil
}

// ReadCSV reads a set from csv records, see LoadCSV.
func ReadCSV(r io.Reader, header bool) (Set, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	var s Set
	dim := -1
	for line := 0; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Set{}, fmt.Errorf("could not parse line %d: %w", line, err)
		}
		if header && line == 0 {
			continue
		}
		if len(record) < 2 {
			return Set{}, fmt.Errorf("line %d needs at least one input and one target column: %d", line, len(record))
		}
		if dim < 0 {
			dim = len(record) - 1
		}
		values := make([]float64, len(record))
		for i, v := range record {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return Set{}, fmt.Errorf("could not parse value at line %d column %d: %w", line, i, err)
			}
			values[i] = f
		}
		s = s.add(values[:dim], values[dim])
	}
	if s.Len() == 0 {
		return Set{}, fmt.Errorf("no samples found")
	}
	return s, nil
}
