package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/animelib/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the server config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Write a commented default config file for animelibd.

Without a path the file goes to the default location
($XDG_CONFIG_HOME/animelib/config.toml). Existing files are left alone.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file animelibd would load",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configPathCmd.Flags().Bool("all", false, "List every searched location")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Start the server with: animelibd -config " + path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if all {
		for _, p := range config.SearchPaths() {
			mark := " "
			if _, err := os.Stat(p); err == nil {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, p)
		}
		return nil
	}

	path, err := config.Discover()
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
