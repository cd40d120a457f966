// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchsave stores benchmark result files in a local history database.
//
// Usage:
//
//	benchsave [-db file] [-driver sqlite3|mysql] file...
//	benchsave [-db file] [-driver sqlite3|mysql] -list
//
// Each invocation saves the samples of all named files as one upload
// and prints the upload ID, which identifies the result set in later
// queries. With -list, benchsave instead prints a summary of the
// stored uploads.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"golang.org/x/benchkit/benchdb"
	"golang.org/x/benchkit/benchfmt"
)

var (
	flagDB     = flag.String("db", "benchmarks.db", "database `name` to store results in")
	flagDriver = flag.String("driver", "sqlite3", "database/sql `driver` to use: sqlite3 or mysql")
	flagList   = flag.Bool("list", false, "list stored uploads instead of saving")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: benchsave [flags] file...\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetPrefix("benchsave: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if *flagList == (flag.NArg() > 0) {
		usage()
	}

	db, err := benchdb.OpenSQL(*flagDriver, *flagDB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if *flagList {
		uploads, err := db.Uploads()
		if err != nil {
			log.Fatal(err)
		}
		for _, u := range uploads {
			fmt.Printf("%d\t%s\t%d records\n", u.ID, u.Time.Format("2006-01-02 15:04:05"), u.Records)
		}
		return
	}

	var samples []*benchfmt.Sample
	for _, path := range flag.Args() {
		samples = append(samples, readFile(path)...)
	}
	if len(samples) == 0 {
		log.Fatal("no valid samples to save")
	}

	id, err := db.SaveSamples(samples)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("saved %d samples as upload %d\n", len(samples), id)
}

// readFile reads the samples in path. Lines that fail to parse are
// skipped with a warning; a file that cannot be opened is fatal.
func readFile(path string) []*benchfmt.Sample {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var samples []*benchfmt.Sample
	r := benchfmt.NewReader(f, path)
	for r.Scan() {
		switch rec := r.Record().(type) {
		case *benchfmt.Sample:
			samples = append(samples, rec)
		case *benchfmt.SyntaxError:
			fmt.Fprintf(os.Stderr, "benchsave: warning: skipping line: %v\n", rec)
		}
	}
	if err := r.Err(); err != nil {
		log.Fatal(err)
	}
	return samples
}
