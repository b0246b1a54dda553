// Command genstorm writes a synthetic storm events CSV for local runs and
// demos, shaped like the NOAA archive the report consumes: messy event type
// casing, occasional NA cells, and stray damage exponent codes included.
//
// Usage:
//
//	go run ./cmd/genstorm -out data/StormData.csv -rows 5000 -seed 1
//
// Point DATASET_PATH at the generated file and the loader will use it
// without downloading anything.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

var eventTypes = []string{
	"TORNADO", "FLASH FLOOD", "FLOOD", "TSTM WIND", "HAIL",
	"EXCESSIVE HEAT", "LIGHTNING", "HIGH WIND", "AVALANCHE",
	"WINTER STORM", "RIP CURRENT", "ICE STORM", "Heavy Rain",
	"DROUGHT", "HURRICANE/TYPHOON", "heat wave", "WILDFIRE",
}

// Weighted toward the codes the archive actually carries, with a sprinkle
// of the stray ones that exercise the default-to-1 path.
var exponentCodes = []string{
	"K", "K", "K", "K", "M", "M", "B", "", "", "k", "m", "?", "+", "5",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/StormData.csv", "output path for the generated CSV")
	rows := flag.Int("rows", 5000, "number of storm event rows to generate")
	seed := flag.Int64("seed", 1, "random seed, for reproducible fixtures")
	flag.Parse()

	if *rows <= 0 {
		return fmt.Errorf("-rows must be positive")
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"EVTYPE", "FATALITIES", "INJURIES", "PROPDMG", "PROPDMGEXP", "CROPDMG", "CROPDMGEXP"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *rows; i++ {
		if err := w.Write(generateRow(rng)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	log.Printf("wrote %d rows to %s", *rows, *out)
	return nil
}

func generateRow(rng *rand.Rand) []string {
	return []string{
		eventTypes[rng.Intn(len(eventTypes))],
		count(rng, 3, 50),
		count(rng, 25, 200),
		damage(rng),
		exponentCodes[rng.Intn(len(exponentCodes))],
		damage(rng),
		exponentCodes[rng.Intn(len(exponentCodes))],
	}
}

// count produces a casualty cell: mostly zero, sometimes a small count,
// rarely an NA to exercise the missing-value path.
func count(rng *rand.Rand, chance, limit int) string {
	if rng.Intn(200) == 0 {
		return "NA"
	}
	if rng.Intn(100) >= chance {
		return "0"
	}
	return strconv.Itoa(1 + rng.Intn(limit))
}

func damage(rng *rand.Rand) string {
	if rng.Intn(3) == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(rng.Intn(10000))/10, 'f', 1, 64)
}
