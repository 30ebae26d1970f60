package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-features-mcp/internal/config"
	"github.com/ironsheep/image-features-mcp/internal/imaging"
	"github.com/ironsheep/image-features-mcp/internal/pipeline"
)

const (
	appName = config.AppName

	// logLevelEnv enables debug logging when set to "debug".
	logLevelEnv = "IMAGE_FEATURES_LOG_LEVEL"
)

// NewRootCmd creates the root command. Run without a subcommand it serves
// MCP on stdio.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "MCP server for keypoint detection, description and matching",
		Long: `image-features-mcp finds FAST corners, orients them by intensity centroid,
keeps a well-spread subset with adaptive non-maximal suppression and computes
steered BRIEF descriptors that can be matched across images.

Without a subcommand it communicates via MCP protocol over stdin/stdout.
Configure it in your MCP client (e.g., Claude Desktop).

Configuration is read from --config, or from
$XDG_CONFIG_HOME/image-features-mcp/config.yaml when present.

Environment variables:
  IMAGE_FEATURES_LOG_LEVEL=debug    Enable debug logging`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runServe,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewDetectCmd())
	cmd.AddCommand(NewMatchCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to stderr (stdout carries MCP and
// JSON output) and reports whether debug logging is on.
func setupLogging(cmd *cobra.Command) bool {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose || os.Getenv(logLevelEnv) == "debug"
}

// newRunner resolves the configuration and builds a pipeline runner.
func newRunner(cmd *cobra.Command) (*pipeline.Runner, error) {
	debug := setupLogging(cmd)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, err
	}

	runner, err := pipeline.New(cfg, imaging.NewImageCache())
	if err != nil {
		return nil, err
	}
	runner.Debug = debug
	if debug {
		if found := config.Find(path); found != "" {
			log.Printf("Using configuration %s", found)
		}
	}
	return runner, nil
}

// addOverrideFlags registers the detector flags shared by detect and match.
func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("threshold", "t", 0, "FAST threshold (default from configuration)")
	cmd.Flags().String("context", "", "Corner context: 9_16 or 7_12 (default from configuration)")
	cmd.Flags().IntP("count", "n", 0, "Number of keypoints kept (default from configuration)")
}

// overridesFromFlags returns the overrides for the flags the user set.
func overridesFromFlags(cmd *cobra.Command) (pipeline.Overrides, error) {
	var o pipeline.Overrides
	if cmd.Flags().Changed("threshold") {
		v, err := cmd.Flags().GetInt("threshold")
		if err != nil {
			return o, err
		}
		o.Threshold = &v
	}
	if cmd.Flags().Changed("count") {
		v, err := cmd.Flags().GetInt("count")
		if err != nil {
			return o, err
		}
		o.Count = &v
	}
	o.Context, _ = cmd.Flags().GetString("context")
	return o, nil
}

// parseRegion parses "x1,y1,x2,y2". An empty string means no region.
func parseRegion(s string) (*imaging.Region, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var r imaging.Region
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.X1, &r.Y1, &r.X2, &r.Y2); err != nil {
		return nil, fmt.Errorf("invalid region %q: want x1,y1,x2,y2: %w", s, err)
	}
	return &r, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
