package dataset

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"strconv"
	"time"
)

var exampleRegions = []string{"North", "South", "East", "West"}

// ExampleCSV synthesizes the 100-row sample dataset offered on the landing
// page: a daily Date sequence from 2023-01-01, normally distributed Sales,
// uniform integer Customers in [50,200) and a 4-value Region category. The
// shape is fixed, the values are random.
func ExampleCSV() []byte {
	return exampleCSV(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func exampleCSV(rng *rand.Rand) []byte {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	cw.Write([]string{"Date", "Sales", "Customers", "Region"})

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		sales := strconv.FormatFloat(100+20*rng.NormFloat64(), 'f', 2, 64)
		customers := strconv.Itoa(50 + rng.Intn(150))
		region := exampleRegions[rng.Intn(len(exampleRegions))]
		cw.Write([]string{date, sales, customers, region})
	}

	cw.Flush()
	return buf.Bytes()
}
