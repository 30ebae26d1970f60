// Package main provides the entry point for image-features-mcp.
//
// Without a subcommand the binary serves MCP over stdin/stdout. The detect
// and match subcommands run the same pipeline once and print JSON.
//
// Usage:
//
//	image-features-mcp [serve]
//	image-features-mcp detect <image>
//	image-features-mcp match <image-a> <image-b>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
