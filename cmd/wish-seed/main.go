package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yourusername/wish-sky/internal/client"
)

func main() {
	// Parse command-line arguments
	if len(os.Args) < 2 {
		fmt.Println("Usage: wish-seed <wishes.txt> [server_url]")
		fmt.Println("Example: wish-seed wishes.txt http://localhost:8080")
		os.Exit(1)
	}

	inputFile := os.Args[1]
	serverURL := "http://localhost:8080"
	if len(os.Args) >= 3 {
		serverURL = os.Args[2]
	}

	file, err := os.Open(inputFile)
	if err != nil {
		fmt.Printf("Error reading file '%s': %v\n", inputFile, err)
		os.Exit(1)
	}
	defer file.Close()

	source := client.NewHTTPSource(serverURL, 5*time.Second)
	ctx := context.Background()

	// One wish per line; blank lines and # comments are skipped
	sent, failed := 0, 0
	scanner := bufio.NewScanner(file)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		item, err := source.Submit(ctx, line)
		if err != nil {
			fmt.Printf("Line %d: %v\n", lineNo, err)
			failed++
			continue
		}
		fmt.Printf("Stored wish %s: %s\n", item.ID, item.Text)
		sent++
	}
	if err := scanner.Err(); err != nil {
		fmt.Printf("Error reading file '%s': %v\n", inputFile, err)
		os.Exit(1)
	}

	fmt.Printf("Sent %d wishes to %s (%d failed)\n", sent, serverURL, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
