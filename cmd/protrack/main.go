// Command protrack is the ProTrack CLI entry point.
package main

import "github.com/protrack-ai/protrack/internal/cli"

func main() {
	cli.Execute()
}
