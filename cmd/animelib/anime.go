package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/vmunix/animelib/pkg/datefmt"
)

var animeCmd = &cobra.Command{
	Use:   "anime",
	Short: "Browse the library",
	Long: `Browse the library.

Examples:
  animelib anime list                  # List library entries
  animelib anime list -q frieren       # Fuzzy title search
  animelib anime list --favorites      # Library favorites only
  animelib anime show 42               # Details and episode settings
  animelib anime episodes 42           # Episodes, filtered by the anime's settings
  animelib anime favorite 42 --off     # Remove from the library`,
}

var animeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List anime",
	Args:  cobra.NoArgs,
	RunE:  runAnimeList,
}

var animeShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show anime details",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnimeShow,
}

var animeEpisodesCmd = &cobra.Command{
	Use:   "episodes <id>",
	Short: "List episodes of an anime",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnimeEpisodes,
}

var animeFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Add an anime to the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnimeFavorite,
}

func init() {
	rootCmd.AddCommand(animeCmd)
	animeListCmd.Flags().StringP("query", "q", "", "Fuzzy title query")
	animeListCmd.Flags().Bool("favorites", false, "Only library favorites")
	animeListCmd.Flags().IntP("limit", "n", 50, "Page size")
	animeListCmd.Flags().Int("offset", 0, "Page offset")
	animeFavoriteCmd.Flags().Bool("off", false, "Remove from the library instead")

	animeCmd.AddCommand(animeListCmd)
	animeCmd.AddCommand(animeShowCmd)
	animeCmd.AddCommand(animeEpisodesCmd)
	animeCmd.AddCommand(animeFavoriteCmd)
}

func runAnimeList(cmd *cobra.Command, args []string) error {
	opts := AnimeListOptions{}
	opts.Query, _ = cmd.Flags().GetString("query")
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.Offset, _ = cmd.Flags().GetInt("offset")
	if favorites, _ := cmd.Flags().GetBool("favorites"); favorites {
		opts.Favorite = &favorites
	}

	client := NewClient(serverURL)
	list, err := client.ListAnime(opts)
	if err != nil {
		return fmt.Errorf("failed to list anime: %w", err)
	}

	if jsonOutput {
		printJSON(list)
		return nil
	}

	if len(list.Items) == 0 {
		fmt.Println("No anime")
		return nil
	}

	fmt.Printf("Anime (%d of %d):\n\n", len(list.Items), list.Total)
	fmt.Printf("  %-6s %-40s %-4s %-14s\n", "ID", "TITLE", "FAV", "ADDED")
	fmt.Println(rule(68))
	for _, a := range list.Items {
		fmt.Printf("  %-6d %-40s %-4s %-14s\n", a.ID, truncate(a.Title, 40), yesNo(a.Favorite), formatTimeAgo(a.DateAdded))
	}
	return nil
}

func runAnimeShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	a, err := client.GetAnime(id)
	if err != nil {
		return fmt.Errorf("failed to fetch anime: %w", err)
	}

	if jsonOutput {
		printJSON(a)
		return nil
	}
	printAnime(a)
	return nil
}

func printAnime(a *AnimeResponse) {
	fmt.Printf("#%d %s\n", a.ID, a.Title)
	fmt.Printf("  Favorite:     %s\n", yesNo(a.Favorite))
	if a.DateAdded > 0 {
		fmt.Printf("  Added:        %s\n", datefmt.DateTimestamp(time.UnixMilli(a.DateAdded), datefmt.DateLayout))
	}
	fmt.Printf("  Updated:      %s\n", formatTimeAgo(a.LastUpdate))
	fmt.Println()
	fmt.Println("Episode settings:")
	fmt.Printf("  Unseen:       %s\n", a.Episodes.Unseen)
	fmt.Printf("  Downloaded:   %s\n", a.Episodes.Downloaded)
	fmt.Printf("  Bookmarked:   %s\n", a.Episodes.Bookmarked)
	fmt.Printf("  Fillermarked: %s\n", a.Episodes.Fillermarked)
	fmt.Printf("  Sorting:      %s %s\n", a.Episodes.Sorting, a.Episodes.Direction)
	fmt.Printf("  Display:      %s\n", a.Episodes.Display)
	fmt.Println()
	fmt.Println("Player:")
	fmt.Printf("  Skip intro:   %ds\n", a.Viewer.SkipIntroLength)
	if a.Viewer.NextEpisodeToAir > 0 {
		fmt.Printf("  Next episode: %d (%s)\n", a.Viewer.NextEpisodeToAir, formatTimeAgo(a.Viewer.NextEpisodeAiringAt*1000))
	}
}

func runAnimeEpisodes(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	eps, err := client.ListEpisodes(id)
	if err != nil {
		return fmt.Errorf("failed to list episodes: %w", err)
	}

	if jsonOutput {
		printJSON(eps)
		return nil
	}

	if len(eps.Items) == 0 {
		fmt.Println("No episodes")
		return nil
	}

	fmt.Printf("Episodes (%d):\n\n", eps.Total)
	now := time.Now()
	fmt.Printf("  %-6s %-6s %-36s %-12s %-5s %-5s %-6s\n", "ID", "NO.", "NAME", "UPLOADED", "SEEN", "BKMK", "FILLER")
	fmt.Println(rule(83))
	for _, e := range eps.Items {
		fmt.Printf("  %-6d %-6g %-36s %-12s %-5s %-5s %-6s\n",
			e.ID, e.EpisodeNumber, truncate(e.Name, 36), uploadLabel(now, e.DateUpload),
			yesNo(e.Seen), yesNo(e.Bookmark), yesNo(e.Fillermark))
	}
	return nil
}

func uploadLabel(now time.Time, millis int64) string {
	if millis <= 0 {
		return "-"
	}
	return datefmt.Relative(now, time.UnixMilli(millis), true, datefmt.DateLayout, language.English)
}

func runAnimeFavorite(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	off, _ := cmd.Flags().GetBool("off")

	client := NewClient(serverURL)
	a, err := client.SetFavorite(id, !off)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if jsonOutput {
		printJSON(a)
		return nil
	}
	if a.Favorite {
		fmt.Printf("Added #%d %s to the library\n", a.ID, a.Title)
	} else {
		fmt.Printf("Removed #%d %s from the library\n", a.ID, a.Title)
	}
	return nil
}
