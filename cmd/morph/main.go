package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"datamorph/internal/config"
	"datamorph/internal/metrics"
	"datamorph/internal/metrics/datadog"
	"datamorph/internal/metrics/prompush"

	// register all backends with the storage factory; the config selects
	// which one a given run uses.
	_ "datamorph/internal/storage/all"
)

// main is the entry point for the morph binary. It loads the pipeline
// config, optionally initializes a metrics backend, and executes the run.
func main() {
	var (
		cfgPath  string
		validate bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/sample.json", "pipeline config JSON path")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	setupMetrics(p, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("pipeline: job=%s source=%s output=%s storage=%s",
			p.Job, p.Source.Path, p.Output.Path, p.Storage.Kind)
	}

	if err := run(ctx, p); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// setupMetrics installs the configured metrics backend; on failure the nop
// backend remains and the run proceeds without metrics.
func setupMetrics(p config.Pipeline, verbose bool) {
	switch p.Metrics.Backend {
	case "prometheus":
		jobName := p.Job
		if jobName == "" {
			jobName = "morph_job"
		}
		b, err := prompush.NewBackend(jobName, p.Metrics.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init prometheus backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=prometheus url=%v job=%v", p.Metrics.PushgatewayURL, jobName)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:      p.Metrics.StatsdAddr,
			Namespace: "morph.",
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return
		}
		log.Printf("metrics: backend=datadog addr=%v", p.Metrics.StatsdAddr)
		metrics.SetBackend(b)

	case "":
		if verbose {
			log.Printf("metrics: disabled")
		}
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
