// Package stats derives the statistical summary view of a Dataset: row and
// missing counts, describe-style aggregates per numeric column, and a
// pairwise Pearson correlation matrix. Everything here is a pure function of
// the dataset; undefined values come back as nil pointers, never NaN.
package stats

import (
	"math"
	"sort"

	"github.com/csv-dashboard/backend/internal/models"
)

// Summarize computes the full SummaryReport for a dataset.
func Summarize(ds *models.Dataset) *models.SummaryReport {
	numeric := ds.NumericColumns()

	desc := make(map[string]*models.ColumnStats, len(numeric))
	for _, name := range numeric {
		desc[name] = Describe(ds.Column(name))
	}

	return &models.SummaryReport{
		RowCount:         ds.RowCount,
		ColumnCount:      len(ds.Columns),
		MissingCount:     ds.MissingTotal(),
		NumericColumns:   numeric,
		DescriptiveStats: desc,
		Correlation:      Correlate(ds),
	}
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max over the non-missing values of a numeric column. With zero values
// every aggregate is nil; with one value the sample std is nil.
func Describe(col *models.Column) *models.ColumnStats {
	vals := col.Values()
	st := &models.ColumnStats{Count: len(vals)}
	if len(vals) == 0 {
		return st
	}

	st.Mean = ptr(mean(vals))
	if len(vals) > 1 {
		st.Std = ptr(sampleStd(vals, *st.Mean))
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	st.Min = ptr(sorted[0])
	st.Q25 = ptr(percentile(sorted, 0.25))
	st.Median = ptr(percentile(sorted, 0.50))
	st.Q75 = ptr(percentile(sorted, 0.75))
	st.Max = ptr(sorted[len(sorted)-1])
	return st
}

// Correlate builds the Pearson matrix over the dataset's numeric columns.
// Each pair is computed on rows where both cells are non-missing; a pair with
// fewer than two such rows, or where either side has zero variance, is nil.
// The diagonal is 1.0 for columns with nonzero variance and nil otherwise.
func Correlate(ds *models.Dataset) *models.CorrelationMatrix {
	names := ds.NumericColumns()
	cols := make([]*models.Column, len(names))
	for i, name := range names {
		cols[i] = ds.Column(name)
	}

	values := make([][]*float64, len(names))
	for i := range names {
		values[i] = make([]*float64, len(names))
		for j := 0; j <= i; j++ {
			r := pearson(cols[i], cols[j])
			values[i][j] = r
			values[j][i] = r
		}
	}

	return &models.CorrelationMatrix{Columns: names, Values: values}
}

func pearson(a, b *models.Column) *float64 {
	var xs, ys []float64
	for i := range a.Missing {
		if a.Missing[i] || b.Missing[i] {
			continue
		}
		xs = append(xs, a.Floats[i])
		ys = append(ys, b.Floats[i])
	}
	if len(xs) < 2 {
		return nil
	}

	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return nil
	}
	if a == b {
		return ptr(1.0)
	}
	return ptr(cov / math.Sqrt(vx*vy))
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStd is the N-1 denominator standard deviation.
func sampleStd(vals []float64, mean float64) float64 {
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// percentile interpolates linearly between order statistics of a sorted
// slice, matching the default dataframe quantile method.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func ptr(v float64) *float64 { return &v }
