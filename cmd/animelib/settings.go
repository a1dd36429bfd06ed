package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var filterStates = []string{"DISABLED", "ENABLED_IS", "ENABLED_NOT"}

var animeFilterCmd = &cobra.Command{
	Use:   "filter <id> <unseen|downloaded|bookmarked|fillermarked> <state>",
	Short: "Set an episode filter (DISABLED, ENABLED_IS, ENABLED_NOT)",
	Args:  cobra.ExactArgs(3),
	RunE:  runAnimeFilter,
}

var animeSortCmd = &cobra.Command{
	Use:   "sort <id> <SOURCE|NUMBER|UPLOAD_DATE|ALPHABET>",
	Short: "Select episode sorting; repeating the current one flips the direction",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnimeSort,
}

var animeDisplayCmd = &cobra.Command{
	Use:   "display <id> <NAME|NUMBER>",
	Short: "Show episodes by name or by number",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnimeDisplay,
}

var animeResetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "Apply the library-wide episode defaults",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnimeReset,
}

var animeSkipIntroCmd = &cobra.Command{
	Use:   "skip-intro <id> <seconds>",
	Short: "Set the intro skip length (0-255 seconds)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnimeSkipIntro,
}

var animeAiringCmd = &cobra.Command{
	Use:   "airing <id> <episode> <unix-seconds>",
	Short: "Record the next episode to air",
	Args:  cobra.ExactArgs(3),
	RunE:  runAnimeAiring,
}

func init() {
	animeCmd.AddCommand(animeFilterCmd)
	animeCmd.AddCommand(animeSortCmd)
	animeCmd.AddCommand(animeDisplayCmd)
	animeCmd.AddCommand(animeResetCmd)
	animeCmd.AddCommand(animeSkipIntroCmd)
	animeCmd.AddCommand(animeAiringCmd)
}

// normalizeState accepts the short forms on, off and not.
func normalizeState(s string) (string, error) {
	switch strings.ToLower(s) {
	case "on", "is", "enabled_is":
		return "ENABLED_IS", nil
	case "not", "enabled_not":
		return "ENABLED_NOT", nil
	case "off", "disabled":
		return "DISABLED", nil
	}
	return "", fmt.Errorf("invalid state %q (valid: %s)", s, strings.Join(filterStates, ", "))
}

func printUpdated(a *AnimeResponse) {
	if jsonOutput {
		printJSON(a)
		return
	}
	printAnime(a)
}

func runAnimeFilter(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	state, err := normalizeState(args[2])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	a, err := client.SetFilter(id, strings.ToLower(args[1]), state)
	if err != nil {
		return fmt.Errorf("set filter failed: %w", err)
	}
	printUpdated(a)
	return nil
}

func runAnimeSort(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	a, err := client.SetSorting(id, strings.ToUpper(args[1]))
	if err != nil {
		return fmt.Errorf("set sorting failed: %w", err)
	}
	printUpdated(a)
	return nil
}

func runAnimeDisplay(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	a, err := client.SetDisplay(id, strings.ToUpper(args[1]))
	if err != nil {
		return fmt.Errorf("set display failed: %w", err)
	}
	printUpdated(a)
	return nil
}

func runAnimeReset(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	a, err := client.ResetEpisodeSettings(id)
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	printUpdated(a)
	return nil
}

func runAnimeSkipIntro(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	seconds, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid seconds: %s", args[1])
	}

	client := NewClient(serverURL)
	a, err := client.SetSkipIntro(id, seconds)
	if err != nil {
		return fmt.Errorf("set skip intro failed: %w", err)
	}
	printUpdated(a)
	return nil
}

func runAnimeAiring(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	episode, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid episode: %s", args[1])
	}
	airingAt, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid airing time: %s", args[2])
	}

	client := NewClient(serverURL)
	a, err := client.SetAiring(id, episode, airingAt)
	if err != nil {
		return fmt.Errorf("set airing failed: %w", err)
	}
	printUpdated(a)
	return nil
}
