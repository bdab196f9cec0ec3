package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/config"
	"github.com/iurii-iurii/clickhouse-sqlalchemy/internal/emit"
)

// main is the entry point for the chddl binary. It loads a table
// declaration file, lints it, builds and attaches the declared engines, and
// renders CREATE TABLE DDL to stdout or to one .sql file per table.
func main() {
	var (
		cfgPath     string
		outDir      string
		validate    bool
		fingerprint bool
		workers     int
	)

	flag.StringVar(&cfgPath, "config", "configs/tables.json", "table declaration JSON path")
	flag.StringVar(&outDir, "out", "", "directory for per-table .sql files (default: print to stdout)")
	flag.BoolVar(&validate, "validate", false, "validate the declaration file and exit")
	flag.BoolVar(&fingerprint, "fingerprint", false, "append a fingerprint comment to each statement")
	flag.IntVar(&workers, "workers", emit.DefaultWorkers, "concurrent render workers")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	f, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	// Lint the declaration file.
	issues := config.Validate(f)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("declaration is invalid: %v", cfgPath)
		os.Exit(1)
	}

	// If validate flag is set, only validate the declaration and exit.
	if validate {
		if *verbose {
			log.Printf("declaration ok: %d table(s), %d issue(s)", len(f.Tables), len(issues))
		}
		return
	}

	tables, err := config.Build(f)
	if err != nil {
		fatalf("%v", err)
	}

	ctx := context.Background()
	start := time.Now()
	opts := emit.Options{OutDir: outDir, Workers: workers, Fingerprint: fingerprint}

	if outDir != "" {
		if err := emit.WriteFiles(ctx, tables, opts); err != nil {
			fatalf("%v", err)
		}
	} else {
		if err := emit.WriteTo(ctx, os.Stdout, tables, opts); err != nil {
			fatalf("%v", err)
		}
	}

	if *verbose {
		log.Printf("rendered %d table(s) in %s", len(tables), time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
