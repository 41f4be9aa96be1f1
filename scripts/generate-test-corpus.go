//go:build ignore

// Package main generates a synthetic structured-text corpus for exercising
// the custom corpus loader and the search pipeline at scale.
// Usage: go run scripts/generate-test-corpus.go -verses 2000 -output testdata/corpus.txt
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numVerses  = flag.Int("verses", 2000, "Number of verses to generate")
	outputFile = flag.String("output", "testdata/corpus.txt", "Output file")
	seed       = flag.Int64("seed", 42, "Random seed for reproducibility")
)

// Word pools for generating verse-like narrative text. The pools lean on the
// loader's keyword heuristics so loosely formatted lines still parse.
var (
	openings = []string{
		"And it came to pass that",
		"Behold,",
		"And now,",
		"Wherefore,",
		"For behold,",
		"And thus we see that",
	}
	subjects = []string{
		"the people", "Nephi", "the Lord", "the servants", "the elders",
		"the multitude", "the children of men", "the brethren",
	}
	actions = []string{
		"did journey in the wilderness",
		"did keep the commandments",
		"began to build a ship",
		"did cry unto the Lord",
		"did gather together",
		"departed into the land southward",
		"did teach the words which had been spoken",
		"did harden their hearts",
	}
	closings = []string{
		"and they were blessed according to their faith",
		"and the Lord did prosper them exceedingly",
		"and they did remember the words of their fathers",
		"and there was peace in the land for many years",
		"and many were brought to a knowledge of the truth",
	}
)

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if dir := filepath.Dir(*outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
	}

	var b strings.Builder
	chapter := 1
	for i := 0; i < *numVerses; i++ {
		verseNum := i%30 + 1
		if verseNum == 1 {
			fmt.Fprintf(&b, "\n1 Nephi %d\n\n", chapter)
			chapter++
		}
		fmt.Fprintf(&b, "%d %s %s %s, %s.\n", verseNum,
			openings[rng.Intn(len(openings))],
			subjects[rng.Intn(len(subjects))],
			actions[rng.Intn(len(actions))],
			closings[rng.Intn(len(closings))])
	}

	if err := os.WriteFile(*outputFile, []byte(b.String()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing corpus: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d verses in %s.\n", *numVerses, *outputFile)
}
