package main

import (
	"flag"
	"fmt"
	"os"

	"classroom-scout/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	runLoop(cfg, os.Stdin)
}
