package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <date> <start> <end>",
	Short: "Classify an interval into tariff buckets",
	Long: `Classify splits a time interval into the five tariff buckets,
applying quarter-hour rounding, the holiday calendar and midnight
crossing. Example:

  bpcli classify 2025-03-10 17:00 23:30`,
	Args: cobra.ExactArgs(3),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Output as JSON")
}

func runClassify(cmd *cobra.Command, args []string) error {
	date, err := allowance.ParseDate(args[0])
	if err != nil {
		return err
	}
	start, err := allowance.ParseClock(args[1])
	if err != nil {
		return err
	}
	end, err := allowance.ParseClock(args[2])
	if err != nil {
		return err
	}

	classifier := allowance.NewClassifier(allowance.NewHolidayCalendar())
	b := classifier.Classify(date, start, end)

	if classifyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	fmt.Printf("%s %s-%s (%s)\n", date, start, end, date.Weekday())
	fmt.Printf("  %-22s%s\n", "Normaltimer", b.Normal.StringFixed(2))
	fmt.Printf("  %-22s%s\n", "Aftentillaeg", b.Evening.StringFixed(2))
	fmt.Printf("  %-22s%s\n", "Nattillaeg", b.Night.StringFixed(2))
	fmt.Printf("  %-22s%s\n", "Loerdagstillaeg", b.Saturday.StringFixed(2))
	fmt.Printf("  %-22s%s\n", "Soen-/helligdagstillaeg", b.SundayHoliday.StringFixed(2))
	fmt.Printf("  %-22s%s\n", "Total", b.Total.StringFixed(2))
	return nil
}
