package main

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/internal/dashboard"
)

var listAnomalies bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the dataset as a table",
	Long:  `Loads the dataset once and prints each record with consumption totals.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listAnomalies, "anomalies", false, "Only show records flagged as anomalies")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	c, err := loadComponent(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer c.Unmount()

	if c.State() != dashboard.Loaded {
		return fmt.Errorf("no dataset loaded from %s", cfg.GetEndpoint())
	}

	records := c.Dataset()
	if listAnomalies {
		records = records.Anomalies()
	}
	if len(records) == 0 {
		fmt.Println("No records found")
		return nil
	}

	fmt.Println("------------------------------------------------------------------------")
	fmt.Printf("%-30s  %12s  %10s  %10s  %8s\n", "Date (UTC)", "kWh", "Humidity", "Temp", "Anomaly")
	fmt.Println("------------------------------------------------------------------------")

	var total float64
	var anomalies int
	for _, r := range records {
		anomaly := ""
		if r.IsAnomaly() {
			anomaly = r.Anomaly.String()
			anomalies++
		}
		fmt.Printf("%-30s  %12s  %10s  %10s  %8s\n",
			chart.UTCString(string(r.Date)),
			r.Consumption.String(),
			r.AverageHumidity.String(),
			r.AverageTemperature.String(),
			anomaly,
		)
		if r.Consumption.Valid && !math.IsNaN(r.Consumption.Float) {
			total += r.Consumption.Float
		}
	}

	fmt.Println("------------------------------------------------------------------------")
	fmt.Printf("Total: %s kWh (%s records, %d anomalies)\n",
		humanize.FormatFloat("#,###.##", total),
		humanize.Comma(int64(len(records))),
		anomalies,
	)
	return nil
}
