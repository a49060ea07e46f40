// Package sample gives the metadata packed into a sample column name a
// typed form. Names follow the fixed pattern
// {CellLine}.{condition}.{replicate}_{metric}; they are parsed once by the
// reshaper and the typed Key is used everywhere downstream.
package sample

import (
	"fmt"
	"regexp"
	"strconv"

	"diaquant/domain/core"
)

// Condition is the treatment arm of a sample.
type Condition string

const (
	Vehicle Condition = "vehicle"
	Treat   Condition = "treat"
)

// Metric is the measurement a sample column carries.
type Metric string

const (
	NrOfPeptide  Metric = "NrOfPeptide"
	ProteinQuant Metric = "ProteinQuant"
)

// Key is the parsed identity of one sample column.
type Key struct {
	CellLine  string
	Condition Condition
	Replicate int
	Metric    Metric
}

// String reassembles the column name the key was parsed from.
func (k Key) String() string {
	return fmt.Sprintf("%s.%s.%d_%s", k.CellLine, k.Condition, k.Replicate, k.Metric)
}

var columnPattern = regexp.MustCompile(`^([^.]+)\.(vehicle|treat)\.(\d+)_(NrOfPeptide|ProteinQuant)$`)

// ParseKey parses a sample column name. A name that does not match the
// pattern yields ErrColumnPatternMismatch; callers treat that as "not a
// sample column" rather than a failure.
func ParseKey(name string) (Key, error) {
	m := columnPattern.FindStringSubmatch(name)
	if m == nil {
		return Key{}, core.NewColumnPatternMismatchError(name)
	}
	replicate, err := strconv.Atoi(m[3])
	if err != nil {
		return Key{}, core.NewColumnPatternMismatchError(name)
	}
	return Key{
		CellLine:  m[1],
		Condition: Condition(m[2]),
		Replicate: replicate,
		Metric:    Metric(m[4]),
	}, nil
}

// IsSampleColumn reports whether a column name parses as a sample key.
func IsSampleColumn(name string) bool {
	_, err := ParseKey(name)
	return err == nil
}
