package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var librarySortCmd = &cobra.Command{
	Use:   "sort [TYPE,DIRECTION]",
	Short: "Show or set the library sort",
	Long: `Show or set the library sort.

Without an argument the global and per-category sorts are printed.

Examples:
  animelib sort                                   # Show sorts
  animelib sort DATE_ADDED,DESCENDING             # Set the sort
  animelib sort ALPHABETICAL,ASCENDING --category 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLibrarySort,
}

func init() {
	rootCmd.AddCommand(librarySortCmd)
	librarySortCmd.Flags().Int64("category", 0, "Category to sort (ignored when categories are not shown)")
}

func runLibrarySort(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	var (
		resp *LibrarySortResponse
		err  error
	)
	if len(args) == 0 {
		resp, err = client.LibrarySort()
	} else {
		var category *int64
		if cmd.Flags().Changed("category") {
			id, _ := cmd.Flags().GetInt64("category")
			category = &id
		}
		resp, err = client.SetLibrarySort(category, args[0])
	}
	if err != nil {
		return fmt.Errorf("library sort failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}

	fmt.Printf("Library sort: %s\n", resp.Sort)
	if len(resp.Categories) == 0 {
		return nil
	}
	fmt.Println()
	fmt.Printf("  %-6s %-24s %-30s\n", "ID", "CATEGORY", "SORT")
	fmt.Println(rule(60))
	for _, c := range resp.Categories {
		fmt.Printf("  %-6d %-24s %-30s\n", c.ID, truncate(c.Name, 24), c.Sort)
	}
	return nil
}
