package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bpcli",
	Short: "Barnepige Timeregistrering – admin inspection tool",
	Long: `bpcli inspects the allowance engine from the command line:
the Danish holiday calendar for a year, and the tariff classification
of a single time interval. It touches no database.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(classifyCmd)
}
