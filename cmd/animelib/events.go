package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	Args:  cobra.NoArgs,
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().Int64("anime", 0, "Show the history of one anime instead")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	animeID, _ := cmd.Flags().GetInt64("anime")

	client := NewClient(serverURL)
	var (
		events *ListEventsResponse
		err    error
	)
	if animeID > 0 {
		events, err = client.AnimeEvents(animeID)
	} else {
		events, err = client.Events(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		printJSON(events)
		return nil
	}

	if len(events.Items) == 0 {
		fmt.Println("No events")
		return nil
	}

	fmt.Printf("Recent Events (%d):\n\n", events.Total)
	fmt.Printf("  %-16s %-28s %-15s\n", "TIME", "TYPE", "ENTITY")
	fmt.Println(rule(61))

	for _, e := range events.Items {
		ago := "unknown"
		if t, err := time.Parse(time.RFC3339, e.OccurredAt); err == nil {
			ago = formatTimeAgo(t.UnixMilli())
		}
		entity := fmt.Sprintf("%s/%d", e.EntityType, e.EntityID)
		fmt.Printf("  %-16s %-28s %-15s\n", ago, e.EventType, entity)
	}

	return nil
}
