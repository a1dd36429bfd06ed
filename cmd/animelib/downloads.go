package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "Show and manage episode downloads",
	Long: `Show and manage episode downloads.

Examples:
  animelib downloads                 # Show the download queue
  animelib downloads show 42         # Show the download state of episode #42
  animelib downloads start 42        # Queue episode #42
  animelib downloads start-now 42    # Move episode #42 to the front of the queue
  animelib downloads cancel 42       # Cancel a queued or running download
  animelib downloads delete 42       # Delete a finished download`,
	Args: cobra.NoArgs,
	RunE: runDownloadsCmd,
}

var downloadsShowCmd = &cobra.Command{
	Use:   "show <episode-id>",
	Short: "Show download state and available actions",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownloadsShow,
}

func newDownloadActionCmd(use, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <episode-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownloadAction(args[0], action)
		},
	}
}

func init() {
	rootCmd.AddCommand(downloadsCmd)
	downloadsCmd.AddCommand(downloadsShowCmd)
	downloadsCmd.AddCommand(newDownloadActionCmd("start", "START", "Queue a download"))
	downloadsCmd.AddCommand(newDownloadActionCmd("start-now", "START_NOW", "Queue a download at the front"))
	downloadsCmd.AddCommand(newDownloadActionCmd("cancel", "CANCEL", "Cancel a download"))
	downloadsCmd.AddCommand(newDownloadActionCmd("delete", "DELETE", "Delete a downloaded episode"))
}

func runDownloadsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	queue, err := client.Downloads()
	if err != nil {
		return fmt.Errorf("failed to fetch downloads: %w", err)
	}

	if jsonOutput {
		printJSON(queue)
		return nil
	}

	if len(queue) == 0 {
		fmt.Println("No downloads queued")
		return nil
	}

	fmt.Printf("Download queue (%d):\n\n", len(queue))
	fmt.Printf("  %-4s %-10s %-12s %-8s %-10s\n", "POS", "EPISODE", "STATE", "PROGRESS", "SIZE")
	fmt.Println(rule(48))
	for _, d := range queue {
		fmt.Printf("  %-4d %-10d %-12s %-8s %-10s\n",
			d.QueuePosition, d.EpisodeID, d.State, formatProgress(d), d.Indicator.SizeLabel)
	}
	return nil
}

func formatProgress(d DownloadResponse) string {
	if d.Indicator.Indeterminate {
		return "..."
	}
	return fmt.Sprintf("%d%%", d.Progress)
}

func printDownload(d *DownloadResponse) {
	fmt.Printf("Episode #%d\n", d.EpisodeID)
	fmt.Printf("  State:      %s\n", d.State)
	fmt.Printf("  Progress:   %s\n", formatProgress(*d))
	if d.QueuePosition > 0 {
		fmt.Printf("  Queue:      #%d\n", d.QueuePosition)
	}
	if d.Indicator.SizeLabel != "" {
		fmt.Printf("  Size:       %s\n", d.Indicator.SizeLabel)
	}
	if d.Indicator.Click != "" {
		fmt.Printf("  Click:      %s\n", d.Indicator.Click)
	}
	if len(d.Indicator.Menu) > 0 {
		fmt.Printf("  Actions:    %s\n", strings.Join(d.Indicator.Menu, ", "))
	}
}

func runDownloadsShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	d, err := client.Download(id)
	if err != nil {
		return fmt.Errorf("failed to fetch download: %w", err)
	}

	if jsonOutput {
		printJSON(d)
		return nil
	}
	printDownload(d)
	return nil
}

func runDownloadAction(rawID, action string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	d, err := client.DownloadAction(id, action)
	if err != nil {
		return fmt.Errorf("%s failed: %w", strings.ToLower(action), err)
	}

	if jsonOutput {
		printJSON(d)
		return nil
	}
	printDownload(d)
	return nil
}
