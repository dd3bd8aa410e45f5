package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var resourcesCategory string

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List support resources",
	Long: `List the curated support resource catalog.

Examples:
  luna resources
  luna resources --category crisis`,
	Args: cobra.NoArgs,
	RunE: runResources,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show server runtime statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	resourcesCmd.Flags().StringVarP(&resourcesCategory, "category", "c", "", "filter by category (mental-health, body-health, crisis, apps)")
}

func runResources(cmd *cobra.Command, args []string) error {
	resources, err := api.ListResources(context.Background(), resourcesCategory)
	if err != nil {
		return fmt.Errorf("list resources: %w", err)
	}

	if len(resources) == 0 {
		fmt.Println("No resources found.")
		return nil
	}

	for _, r := range resources {
		fmt.Printf("%s  %s\n", DefaultTheme.titleStyle().Render(r.Title),
			DefaultTheme.hintStyle().Render("["+r.Category+"]"))
		fmt.Println("  " + r.Description)
		if r.URL != "" {
			fmt.Println("  " + r.URL)
		}
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := api.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}

	var pretty map[string]any
	if err := json.Unmarshal(stats, &pretty); err != nil {
		return fmt.Errorf("decode stats: %w", err)
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return fmt.Errorf("format stats: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
