package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var episodeCmd = &cobra.Command{
	Use:   "episode",
	Short: "Mark episodes",
}

var episodeMarkCmd = &cobra.Command{
	Use:   "mark <episode-id>",
	Short: "Set seen, bookmark and filler marks of an episode",
	Long: `Set seen, bookmark and filler marks of an episode.

Only the flags given are changed.

Examples:
  animelib episode mark 42 --seen
  animelib episode mark 42 --seen=false --bookmark
  animelib episode mark 42 --progress 610`,
	Args: cobra.ExactArgs(1),
	RunE: runEpisodeMark,
}

func init() {
	rootCmd.AddCommand(episodeCmd)
	episodeCmd.AddCommand(episodeMarkCmd)
	episodeMarkCmd.Flags().Bool("seen", false, "Mark as seen")
	episodeMarkCmd.Flags().Bool("bookmark", false, "Bookmark")
	episodeMarkCmd.Flags().Bool("filler", false, "Mark as filler")
	episodeMarkCmd.Flags().Int64("progress", 0, "Last second seen")
}

func episodeMarks(cmd *cobra.Command) (EpisodeMarks, error) {
	var marks EpisodeMarks
	boolFlag := func(name string) *bool {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetBool(name)
		return &v
	}
	marks.Seen = boolFlag("seen")
	marks.Bookmark = boolFlag("bookmark")
	marks.Fillermark = boolFlag("filler")
	if cmd.Flags().Changed("progress") {
		v, _ := cmd.Flags().GetInt64("progress")
		marks.LastSecondSeen = &v
	}
	if marks == (EpisodeMarks{}) {
		return marks, fmt.Errorf("nothing to change: pass --seen, --bookmark, --filler or --progress")
	}
	return marks, nil
}

func runEpisodeMark(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	marks, err := episodeMarks(cmd)
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	e, err := client.UpdateEpisode(id, marks)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if jsonOutput {
		printJSON(e)
		return nil
	}
	fmt.Printf("Episode #%d %s: seen=%s bookmark=%s filler=%s progress=%ds\n",
		e.ID, e.Name, yesNo(e.Seen), yesNo(e.Bookmark), yesNo(e.Fillermark), e.LastSecondSeen)
	return nil
}
