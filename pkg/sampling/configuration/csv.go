package configuration

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"

	"github.com/pkg/errors"
)

// ErrNoColumns is returned when writing configurations without any
// option to write.
var ErrNoColumns = errors.New("configuration csv needs at least one option column")

// WriteCSV writes one header row of option names followed by one row
// per configuration, with 1 for options set true and 0 otherwise.
// The header needs at least one option, since a row without columns
// cannot be read back.
func WriteCSV(w io.Writer, configs []*Configuration, header []string) error {
	if len(header) == 0 {
		return ErrNoColumns
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, c := range configs {
		for i, name := range header {
			if v, _ := c.OptionValue(name); v {
				row[i] = "1"
			} else {
				row[i] = "0"
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads configurations written by WriteCSV. Only options whose
// cell is 1 are set; they are set true.
func ReadCSV(r io.Reader) ([]*Configuration, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return fromRows(header, rows), nil
}

// SampleFromCSV draws n rows without replacement from a measurement
// CSV and returns them as configurations, along with the option names
// of the file. The last column of a measurement CSV holds the measured
// value and is ignored.
func SampleFromCSV(r io.Reader, n int, rng *rand.Rand) ([]*Configuration, []string, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("sample size must be positive, got %d", n)
	}
	header, rows, err := readAll(r)
	if err != nil {
		return nil, nil, err
	}
	if len(header) == 0 {
		return nil, nil, errors.New("measurement csv has no columns")
	}
	if n > len(rows) {
		return nil, nil, fmt.Errorf("cannot sample %d rows from %d measurements", n, len(rows))
	}

	options := header[:len(header)-1]
	perm := rng.Perm(len(rows))
	sampled := make([][]string, n)
	for i := range sampled {
		sampled[i] = rows[perm[i]]
	}
	return fromRows(options, sampled), options, nil
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "error reading configuration csv")
	}
	if len(records) == 0 {
		return nil, nil, errors.New("configuration csv has no header")
	}
	return records[0], records[1:], nil
}

func fromRows(header []string, rows [][]string) []*Configuration {
	configs := make([]*Configuration, 0, len(rows))
	for _, row := range rows {
		c := New()
		for i, name := range header {
			if row[i] == "1" {
				c.SetOption(name, true)
			}
		}
		configs = append(configs, c)
	}
	return configs
}
