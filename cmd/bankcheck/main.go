package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-bank-bot/internal/parser"
	"github.com/aliskhannn/quiz-bank-bot/internal/service"
)

func main() {
	// Command-line flags
	output := pflag.StringP("output", "o", "", "Write the parsed bank as JSON to this file")
	sample := pflag.BoolP("sample", "s", false, "Print a sampled session instead of the statistics only")
	size := pflag.IntP("size", "n", entities.DefaultSessionSize, "Session size used with --sample")
	seed := pflag.Int64("seed", 0, "Random seed for --sample (0 picks a time based seed)")
	verbose := pflag.BoolP("verbose", "v", false, "List every parsed question")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bankcheck [flags] <bank-file>\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(1)
	}
	input := pflag.Arg(0)

	data, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read input file: %v\n", err)
		os.Exit(1)
	}

	bank := parser.Parse(string(data))
	if len(bank) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no questions found in %s\n", input)
		os.Exit(1)
	}

	printStats(input, parser.Summarize(bank))

	if *verbose {
		printQuestions(bank)
	}

	if *sample {
		if *seed == 0 {
			*seed = time.Now().UnixNano()
		}
		sampler := service.NewSampler(*size, rand.New(rand.NewSource(*seed)))
		session := sampler.Sample(bank)

		fmt.Printf("\nSampled %d of %d questions (seed %d):\n", len(session), len(bank), *seed)
		printQuestions(session)
	}

	if *output != "" {
		if err := writeJSON(bank, *output); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nBank written to %s\n", *output)
	}
}

func printStats(input string, s parser.Stats) {
	fmt.Printf("File:             %s\n", input)
	fmt.Printf("Questions:        %d\n", s.Questions)
	fmt.Printf("Options:          %d\n", s.Options)
	fmt.Printf("Correct options:  %d\n", s.CorrectOptions)
	fmt.Printf("Multi-select:     %d\n", s.MultiSelect)
	if s.WithoutCorrect > 0 {
		fmt.Printf("Warning: %d question(s) have no bold option and can never be answered correctly\n", s.WithoutCorrect)
	}
}

func printQuestions(questions []entities.Question) {
	for _, q := range questions {
		kind := "single"
		if q.IsMultiSelect() {
			kind = "multi"
		}
		fmt.Printf("  #%-4d %-6s %d options  %s\n", q.Number, kind, len(q.Options), q.Text)
	}
}

func writeJSON(bank []entities.Question, path string) error {
	data, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
