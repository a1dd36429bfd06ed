package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newServiceCmd builds the list/login/logout tree shared by trackers and
// connections; kind is the API collection name.
func newServiceCmd(kind, short string) *cobra.Command {
	root := &cobra.Command{
		Use:   kind,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceList(kind)
		},
	}

	login := &cobra.Command{
		Use:   "login <id> <username>",
		Short: "Store credentials (password is read from stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceLogin(kind, args[0], args[1])
		},
	}

	logout := &cobra.Command{
		Use:   "logout <id>",
		Short: "Forget credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServiceLogout(kind, args[0])
		},
	}

	root.AddCommand(login, logout)
	return root
}

func init() {
	rootCmd.AddCommand(newServiceCmd("trackers", "Show and log in to trackers"))
	rootCmd.AddCommand(newServiceCmd("connections", "Show and log in to connections"))
}

func runServiceList(kind string) error {
	client := NewClient(serverURL)
	services, err := client.Services(kind)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", kind, err)
	}

	if jsonOutput {
		printJSON(services)
		return nil
	}

	fmt.Printf("  %-4s %-20s %-10s %-9s\n", "ID", "NAME", "COLOR", "LOGGED IN")
	fmt.Println(rule(46))
	for _, s := range services {
		fmt.Printf("  %-4d %-20s %-10s %-9s\n", s.ID, s.Name, s.LogoColor, yesNo(s.LoggedIn))
	}
	return nil
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runServiceLogin(kind, rawID, username string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	password, err := readPassword()
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	s, err := client.ServiceLogin(kind, id, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if jsonOutput {
		printJSON(s)
		return nil
	}
	fmt.Printf("Logged in to %s as %s\n", s.Name, username)
	return nil
}

func runServiceLogout(kind, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	client := NewClient(serverURL)
	s, err := client.ServiceLogout(kind, id)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if jsonOutput {
		printJSON(s)
		return nil
	}
	fmt.Printf("Logged out of %s\n", s.Name)
	return nil
}
