// lr-curve prints one schedule's learning rate over a step range as
// CSV, for quick inspection or plotting.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/thyrook/annealer/internal/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file (empty uses defaults)")
		name       = flag.String("schedule", "cosine", "Schedule to evaluate")
		steps      = flag.Int("steps", 1000, "Number of steps to print")
		every      = flag.Int("every", 1, "Print every Nth step")
	)
	flag.Parse()

	if *steps <= 0 || *every <= 0 {
		fmt.Fprintln(os.Stderr, "steps and every must be positive")
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	s, err := cfg.Schedules.Build(*name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nknown schedules: %s\n", err, strings.Join(config.ScheduleNames(), ", "))
		os.Exit(1)
	}

	fmt.Println("step,rate")
	for step := 0; step < *steps; step += *every {
		fmt.Printf("%d,%.10g\n", step, s.Rate(step))
	}
}
