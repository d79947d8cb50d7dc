// memscrub drives parallel memory self tests from the command line.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "memscrub",
	Short: "memscrub fills a memory region with a pseudorandom pattern in parallel and counts the bits that do not read back.",
	Long: `memscrub is a parallel memory self test. A group of execution units ` +
		`stripes a deterministic LFSR pattern across a memory region, then ` +
		`re-derives the pattern with reversed unit identities and counts ` +
		`bit-level mismatches. A non-zero count means corrupted memory.`,
}

func main() {
	// A .env file can preset the MEMSCRUB_* variables the flags fall
	// back to. Missing files are fine.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}

	atexit.Exit(0)
}
