// Package main provides the entry point for the imgshield CLI.
//
// imgshield checks images for private information before they are shared.
// It sends an image to a privacy analysis endpoint, inspects its metadata,
// and redacts regions with blur or blackout effects.
//
// Usage:
//
//	imgshield analyze screenshot.png
//	imgshield redact --region 10,10,200,40 -o safe.png screenshot.png
//	imgshield history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
