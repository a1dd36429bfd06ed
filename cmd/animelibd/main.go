package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vmunix/animelib/internal/config"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: discovered)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	initPath := flag.String("init", "", "Write a default config to the given path and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("animelibd %s\n", version)
		os.Exit(0)
	}

	if *initPath != "" {
		if err := config.WriteDefault(*initPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *initPath)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		var err error
		if path, err = config.Discover(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := runServer(path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
