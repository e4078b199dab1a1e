package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: pronote-cal (auth|sync|list|cleanup)")
		os.Exit(1)
	}
	config, err := readConfig(configFileName)
	if err != nil {
		// Try reading from the home directory
		config, err = readConfig(os.Getenv("HOME") + "/" + configFileName)
		if err != nil {
			log.Fatalf("Error reading config file: %v", err)
		}
	}
	initOAuthConfig(config)
	dbInit()
	command := os.Args[1]
	switch command {
	case "auth":
		authorize(config)
	case "sync":
		syncCalendar(config)
	case "list":
		listEvents(config)
	case "cleanup":
		cleanupCalendar(config)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}
