// Package missingness computes per-column missing-value rates and buckets
// columns into imputation strategy tiers.
package missingness

import (
	"github.com/montanaflynn/stats"

	"diaquant/domain/frame"
)

// Bucket is the imputation strategy tier of a column.
type Bucket string

const (
	// BucketLow columns (< low cutoff % missing) are left as-is.
	BucketLow Bucket = "low"
	// BucketModerate columns (low..high cutoff) are imputed.
	BucketModerate Bucket = "moderate"
	// BucketHigh columns (>= high cutoff) are imputed.
	BucketHigh Bucket = "high"
)

// ColumnProfile describes the missingness of one numeric column, plus
// summary statistics over its observed values.
type ColumnProfile struct {
	Name         string
	Total        int
	MissingCount int
	MissingRate  float64 // percent, 0..100
	Bucket       Bucket

	ObservedMean   float64
	ObservedMedian float64
	ObservedStdDev float64
}

// Profile is the ordered classification of every numeric column.
type Profile struct {
	Columns []ColumnProfile
}

// ProfileFrame computes missing rates for every numeric column and buckets
// them. Bucket boundaries are low < lowCutoff <= moderate < highCutoff <= high.
func ProfileFrame(f *frame.Frame, lowCutoff, highCutoff float64) *Profile {
	p := &Profile{}
	for _, name := range f.NumericColumnNames() {
		col, _ := f.Column(name)
		total := col.Len()
		missing := col.MissingCount()

		rate := 0.0
		if total > 0 {
			rate = float64(missing) / float64(total) * 100
		}

		bucket := BucketLow
		switch {
		case rate >= highCutoff:
			bucket = BucketHigh
		case rate >= lowCutoff:
			bucket = BucketModerate
		}

		cp := ColumnProfile{
			Name:         name,
			Total:        total,
			MissingCount: missing,
			MissingRate:  rate,
			Bucket:       bucket,
		}
		if observed := col.Observed(); len(observed) > 0 {
			cp.ObservedMean, _ = stats.Mean(observed)
			cp.ObservedMedian, _ = stats.Median(observed)
			cp.ObservedStdDev, _ = stats.StandardDeviationSample(observed)
		}
		p.Columns = append(p.Columns, cp)
	}
	return p
}

// Moderate returns moderate-bucket column names in original column order.
// Columns with no missing values never appear, whatever their bucket.
func (p *Profile) Moderate() []string { return p.bucketColumns(BucketModerate) }

// High returns high-bucket column names in original column order.
func (p *Profile) High() []string { return p.bucketColumns(BucketHigh) }

// Imputable returns every column that needs imputation (moderate then high
// tiers are both imputed with the same method, so order is column order).
func (p *Profile) Imputable() []string {
	var names []string
	for _, cp := range p.Columns {
		if cp.MissingCount == 0 {
			continue
		}
		if cp.Bucket == BucketModerate || cp.Bucket == BucketHigh {
			names = append(names, cp.Name)
		}
	}
	return names
}

func (p *Profile) bucketColumns(b Bucket) []string {
	var names []string
	for _, cp := range p.Columns {
		if cp.MissingCount == 0 {
			continue
		}
		if cp.Bucket == b {
			names = append(names, cp.Name)
		}
	}
	return names
}
