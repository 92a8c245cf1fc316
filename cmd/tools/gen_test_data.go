package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/samber/lo"
)

// Generates input CSV files of varying shapes to exercise the pipeline:
// a clean file, one with malformed rows mixed in, and a large one for
// load testing the concurrency settings.
func main() {
	outputDir := flag.String("dir", "./test_data", "Destination directory")
	largeRows := flag.Int("rows", 10000, "Row count for the large file")
	seed := flag.Int64("seed", 42, "Random seed, fixed for reproducible files")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		panic(fmt.Sprintf("Cannot create directory: %v", err))
	}
	rng := rand.New(rand.NewSource(*seed))

	fmt.Println("Generating test input files...")

	genClean(filepath.Join(*outputDir, "messages_clean.csv"))
	genMalformed(filepath.Join(*outputDir, "messages_malformed.csv"))
	genLarge(filepath.Join(*outputDir, "messages_large.csv"), *largeRows, rng)

	fmt.Printf("Done. Point POST /run at the files under %s\n", *outputDir)
}

var sampleMessages = []string{
	"hello there, how are you today",
	"  spaced   out   message  ",
	"urgent: please verify your account",
	"lunch at noon?",
	"this deal is a guaranteed win, act now",
	"meeting moved to 3pm",
	"félicitations, vous avez gagné",
	"did you see the match last night",
}

func genClean(path string) {
	rows := [][]string{{"user_id", "message"}}
	for i, msg := range sampleMessages {
		userID := fmt.Sprintf("u%d", i%3+1)
		rows = append(rows, []string{userID, msg})
	}
	writeCSV(path, rows)
}

// genMalformed mixes valid rows with the failure shapes the reader must
// tolerate: short records, empty fields, blank messages.
func genMalformed(path string) {
	rows := [][]string{
		{"user_id", "message"},
		{"u1", "a perfectly fine message"},
		{"u2"},
		{"", "message without a user"},
		{"u3", ""},
		{"u1", "   "},
		{"u2", "another fine one"},
	}
	writeCSV(path, rows)
}

func genLarge(path string, count int, rng *rand.Rand) {
	users := lo.Map(lo.Range(50), func(i int, _ int) string {
		return fmt.Sprintf("user_%03d", i)
	})

	rows := make([][]string, 0, count+1)
	rows = append(rows, []string{"user_id", "message"})
	for i := 0; i < count; i++ {
		user := users[rng.Intn(len(users))]
		msg := fmt.Sprintf("%s #%d", sampleMessages[rng.Intn(len(sampleMessages))], i)
		rows = append(rows, []string{user, msg})
	}
	writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) {
	f, err := os.Create(path)
	if err != nil {
		panic(fmt.Sprintf("Cannot create %s: %v", path, err))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()
	fmt.Printf("Wrote %s (%d rows)\n", path, len(rows)-1)
}
