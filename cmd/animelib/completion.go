package main

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vmunix/animelib/internal/preference"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for animelib.

Completion covers subcommands, filter names and states, episode sort keys,
display modes and library sorts. Anime IDs are not completed.

  bash:        source <(animelib completion bash)
  zsh:         animelib completion zsh > "${fpath[1]}/_animelib"
  fish:        animelib completion fish > ~/.config/fish/completions/animelib.fish
  powershell:  animelib completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

var (
	filterNames   = []string{"unseen", "downloaded", "bookmarked", "fillermarked"}
	episodeSorts  = []string{"SOURCE", "NUMBER", "UPLOAD_DATE", "ALPHABET"}
	displayModes  = []string{"NAME", "NUMBER"}
	stateAliases  = append([]string{"on", "not", "off"}, filterStates...)
	sortDirection = []string{"ASCENDING", "DESCENDING"}
)

func init() {
	rootCmd.AddCommand(completionCmd)

	animeFilterCmd.ValidArgsFunction = completeArgs(nil, filterNames, stateAliases)
	animeSortCmd.ValidArgsFunction = completeArgs(nil, episodeSorts)
	animeDisplayCmd.ValidArgsFunction = completeArgs(nil, displayModes)
	librarySortCmd.ValidArgsFunction = completeArgs(librarySorts())
}

// completeArgs completes positional argument i from choices[i]. A nil entry
// (an anime ID) completes nothing.
func completeArgs(choices ...[]string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= len(choices) || choices[len(args)] == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		prefix := strings.ToLower(toComplete)
		return lo.Filter(choices[len(args)], func(c string, _ int) bool {
			return strings.HasPrefix(strings.ToLower(c), prefix)
		}), cobra.ShellCompDirectiveNoFileComp
	}
}

// librarySorts lists every TYPE,DIRECTION pair accepted by "animelib sort".
func librarySorts() []string {
	var out []string
	for _, t := range preference.SortTypes() {
		for _, d := range sortDirection {
			out = append(out, t.String()+","+d)
		}
	}
	return out
}
