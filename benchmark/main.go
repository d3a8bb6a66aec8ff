// Package main benchmarks the codehealth CLI against local TypeScript repositories.
// Each command runs several times without history and several times with the
// sqlite history store. The first successful sqlite run is reported as cold and
// the rest are averaged as warm. Results are written to a CSV file.
//
// Prerequisites:
// - codehealth binary installed and available in PATH
// - Test repositories cloned to the specified base directory
//
// Usage: go run benchmark/main.go [repo-base-dir]
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one command on one repository.
type BenchmarkResult struct {
	Repository    string
	Command       string
	NoHistoryTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase      string
	Timeout       time.Duration
	Workers       int
	NoHistoryRuns int
	HistoryRuns   int
	TestRepos     []string
	RepoTargets   map[string]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:      os.Args[1],
		Timeout:       5 * time.Minute,
		Workers:       8,
		NoHistoryRuns: 3,
		HistoryRuns:   4,
		TestRepos:     []string{"zod", "vite", "typescript-eslint"},
		RepoTargets: map[string]string{
			"zod":               "packages/zod/src/index.ts",
			"vite":              "packages/vite/src/node/server/index.ts",
			"typescript-eslint": "packages/parser/src/parser.ts",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing history...\n")
	clearCmd := exec.Command("codehealth", "history", "clear", "--history-backend", "sqlite")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear history: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("codehealth"); err != nil {
		return fmt.Errorf("codehealth binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, no-history: %d runs, history: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.NoHistoryRuns, config.HistoryRuns)

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		target, ok := config.RepoTargets[repo]
		if !ok {
			continue
		}
		extra := []string{"--mode", "files", "--target", target}

		fmt.Printf("Benchmarking %s\n", repo)
		results = append(results,
			runBenchmarkSuite(config, repo, repoPath, "collect", extra),
			runBenchmarkSuite(config, repo, repoPath, "run", extra),
		)
	}

	return results
}

// runBenchmarkSuite times one command without history and then with sqlite history
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, command string, extraArgs []string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, repo)

	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repoPath, command, extraArgs, backend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noHistoryAvg := runPhase("none", config.NoHistoryRuns, "No-history")
	coldTime, warmAvg := runPhase("sqlite", config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold time: %s, Warm average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:    repo,
		Command:       command,
		NoHistoryTime: noHistoryAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a command numRuns times and returns the first time and the rest
func runBenchmark(config BenchmarkConfig, repoPath, command string, extraArgs []string, backend string, numRuns int) (coldTime float64, warmTimes []float64) {
	outDir, err := os.MkdirTemp("", "codehealth-bench-")
	if err != nil {
		return 0, nil
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	args := []string{command,
		"--history-backend", backend,
		"--workers", fmt.Sprint(config.Workers),
		"--out", filepath.Join(outDir, "quantitative-metrics.json"),
		"--out-unavailable", filepath.Join(outDir, "unavailable-metrics.json"),
	}
	if command == "run" {
		args = append(args,
			"--out-json", filepath.Join(outDir, "scorecard.json"),
			"--out-md", filepath.Join(outDir, "scorecard.md"),
		)
	}
	args = append(args, extraArgs...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("codehealth", args...)
		cmd.Dir = repoPath

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks the summary line printed at the end of each command
func isSuccess(output []byte, command string) bool {
	phrase := "Collection completed in"
	if command == "run" {
		phrase = "Scorecard built in"
	}
	return strings.Contains(string(output), phrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/codehealth_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"repo", "cmd", "no_history_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.NoHistoryTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"collect", "run"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-18s: No-history: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoHistoryTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
