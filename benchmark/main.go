// Package main measures reusability CLI query times against a live metrics provider.
// Each query runs several times without the response cache and several times with a
// SQLite cache, treating the first cached run as cold and averaging the rest as warm,
// and the results are written to CSV.
//
// Prerequisites:
// - reusability binary installed and available in PATH
// - A metrics provider reachable at the given URL that knows the target repositories
//
// Usage: go run benchmark/main.go <metrics-url> <repo-url>@<sha> [<repo-url>@<sha> ...]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkTarget is one repository and commit to query.
type BenchmarkTarget struct {
	RepoURL string
	SHA     string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	MetricsURL  string
	CacheDB     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Targets     []BenchmarkTarget
}

func main() {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: %s <metrics-url> <repo-url>@<sha> [<repo-url>@<sha> ...]\n", os.Args[0])
		os.Exit(1)
	}

	targets, err := parseTargets(os.Args[2:])
	if err != nil {
		fmt.Printf("Invalid target: %v\n", err)
		os.Exit(1)
	}

	config := BenchmarkConfig{
		MetricsURL:  os.Args[1],
		CacheDB:     filepath.Join(os.TempDir(), "reusability_benchmark_cache.db"),
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Targets:     targets,
	}

	if _, err := exec.LookPath("reusability"); err != nil {
		fmt.Println("Prerequisites check failed: reusability binary not found in PATH")
		os.Exit(1)
	}

	// Start every cached phase from an empty cache file
	fmt.Printf("Clearing cache...\n")
	if err := os.Remove(config.CacheDB); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: failed to clear cache: %v\n", err)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// parseTargets splits <repo-url>@<sha> arguments at the last '@'.
func parseTargets(args []string) ([]BenchmarkTarget, error) {
	targets := make([]BenchmarkTarget, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, "@")
		if i <= 0 || i == len(arg)-1 {
			return nil, fmt.Errorf("%q is not <repo-url>@<sha>", arg)
		}
		targets = append(targets, BenchmarkTarget{RepoURL: arg[:i], SHA: arg[i+1:]})
	}
	return targets, nil
}

// runBenchmarks executes all benchmark queries across configured targets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d targets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Targets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, target := range config.Targets {
		fmt.Printf("Benchmarking %s@%s\n", target.RepoURL, target.SHA)

		results = append(results,
			runBenchmarkSuite(config, target, "files", target.RepoURL, target.SHA),
			runBenchmarkSuite(config, target, "project", target.RepoURL, target.SHA),
			runBenchmarkSuite(config, target, "history", target.RepoURL),
		)
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, target BenchmarkTarget, command string, args ...string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, target.RepoURL)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, args, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:  target.RepoURL,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a reusability command multiple times with the given cache backend
// and returns the cold time and the warm times
func runBenchmark(config BenchmarkConfig, command string, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	cmdArgs := append([]string{command}, args...)
	cmdArgs = append(cmdArgs,
		"--metrics-url", config.MetricsURL,
		"--cache-backend", cacheBackend,
		"--color", "no",
	)
	if cacheBackend == "sqlite" {
		cmdArgs = append(cmdArgs, "--cache-db-connect", config.CacheDB)
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "reusability", cmdArgs...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Query completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("reusability_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "files", "File Indices:")
	printCommandSummary(results, "project", "Project Index:")
	printCommandSummary(results, "history", "Project History:")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-40s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
