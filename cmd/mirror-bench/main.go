// mirror-bench measures enforcement pipeline latency over a fixed input.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/scrollkeeper/mirrorgate/internal/catalog"
	"github.com/scrollkeeper/mirrorgate/internal/pipeline"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to catalog yaml (default: built-in catalogs)")
	n := flag.Int("n", 200, "number of iterations")
	response := flag.String("response", "You should try a healing journey. Remember to embrace love and light.", "response text to process")
	input := flag.String("input", "Remind me who I am.", "user input the response answers")
	flag.Parse()

	cats, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("load catalogs: %v", err)
	}
	pipe := pipeline.New(cats)

	// Warmup
	for i := 0; i < 5; i++ {
		pipe.Process(*response, *input)
	}

	if *n <= 0 {
		*n = 1
	}

	durations := make([]time.Duration, 0, *n)
	var last pipeline.Result
	for i := 0; i < *n; i++ {
		start := time.Now()
		last = pipe.Process(*response, *input)
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	var total time.Duration
	for _, d := range durations {
		total += d
	}

	avg := float64(total.Microseconds()) / 1000.0 / float64(len(durations))
	p50 := float64(durations[len(durations)/2].Microseconds()) / 1000.0
	p95 := float64(durations[int(float64(len(durations))*0.95)].Microseconds()) / 1000.0

	fmt.Printf("bench: n=%d avg_ms=%.3f p50_ms=%.3f p95_ms=%.3f confidence=%d tier=%s modified=%t\n",
		len(durations),
		avg,
		p50,
		p95,
		last.Detection.Confidence,
		last.Quality.RiskTier,
		last.WasModified,
	)
}
