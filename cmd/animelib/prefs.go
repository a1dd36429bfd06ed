package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show and edit preferences",
	Long: `Show and edit preferences.

App state and credentials are never listed.

Examples:
  animelib prefs                                  # List stored preferences
  animelib prefs get pref_skip_intro_length       # Show one value
  animelib prefs set pref_skip_intro_length 90    # Store a value
  animelib prefs unset pref_skip_intro_length     # Revert to the default`,
	Args: cobra.NoArgs,
	RunE: runPrefsList,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrefsSet,
}

var prefsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Delete a preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsUnset,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsUnsetCmd)
}

func runPrefsList(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	prefs, err := client.Preferences()
	if err != nil {
		return fmt.Errorf("failed to list preferences: %w", err)
	}

	if jsonOutput {
		printJSON(prefs)
		return nil
	}

	if len(prefs) == 0 {
		fmt.Println("No preferences set")
		return nil
	}
	for _, p := range prefs {
		fmt.Printf("%s = %s\n", p.Key, p.Value)
	}
	return nil
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	p, err := client.Preference(args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch preference: %w", err)
	}

	if jsonOutput {
		printJSON(p)
		return nil
	}
	fmt.Println(p.Value)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	p, err := client.SetPreference(args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}

	if jsonOutput {
		printJSON(p)
		return nil
	}
	fmt.Printf("%s = %s\n", p.Key, p.Value)
	return nil
}

func runPrefsUnset(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	if err := client.DeletePreference(args[0]); err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
