// Command lanyard is the event management CLI: event setup, registration,
// badge design, check-in, seating, and campaign tracking.
package main

import (
	"fmt"
	"os"

	"github.com/lanyardapp/lanyard/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
