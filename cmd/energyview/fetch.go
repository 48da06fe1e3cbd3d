package main

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/jgoulah/energyview/internal/dashboard"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the dataset and print it as JSON",
	Long:  `Loads the dataset once from the configured endpoint and prints the records as indented JSON.`,
	RunE:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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

	out, err := json.Marshal(c.Dataset(), jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
