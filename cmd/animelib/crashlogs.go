package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var crashLogsCmd = &cobra.Command{
	Use:   "crash-logs",
	Short: "Write a diagnostics file on the server",
	Long:  "Collects version info, problematic extensions and recent error log lines into a file on the server and prints its path.",
	Args:  cobra.NoArgs,
	RunE:  runCrashLogs,
}

func init() {
	rootCmd.AddCommand(crashLogsCmd)
}

func runCrashLogs(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	resp, err := client.DumpCrashLogs()
	if err != nil {
		return fmt.Errorf("failed to dump crash logs: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Printf("Crash logs written to %s\n", resp.Path)
	return nil
}
