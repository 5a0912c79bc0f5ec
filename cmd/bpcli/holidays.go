package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

var holidaysFormat string

var holidaysCmd = &cobra.Command{
	Use:   "holidays <year>",
	Short: "List the holiday calendar for a year",
	Args:  cobra.ExactArgs(1),
	RunE:  runHolidays,
}

func init() {
	holidaysCmd.Flags().StringVar(&holidaysFormat, "format", "table", "Output format: table, json")
}

func runHolidays(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}

	holidays := allowance.HolidaysForYear(year)

	switch holidaysFormat {
	case "json":
		type holidayJSON struct {
			Date string `json:"date"`
			Name string `json:"name"`
		}
		out := make([]holidayJSON, len(holidays))
		for i, h := range holidays {
			out[i] = holidayJSON{Date: h.Date.String(), Name: h.Name}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		for _, h := range holidays {
			fmt.Printf("%s  %s\n", h.Date, h.Name)
		}
	}
	return nil
}
