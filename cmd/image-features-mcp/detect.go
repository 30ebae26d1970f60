package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/image-features-mcp/internal/pipeline"
)

// NewDetectCmd creates the detect command.
func NewDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <image>",
		Short: "Detect keypoints in an image and print them as JSON",
		Long: `Detect runs corner detection, orientation and adaptive suppression on one
image and prints the retained keypoints as JSON.

Examples:
  # Keypoints with the configured defaults
  image-features-mcp detect scene.png

  # 100 keypoints from the upper-left quadrant, with descriptors
  image-features-mcp detect --count 100 --region 0,0,320,240 --describe scene.png`,
		Args: cobra.ExactArgs(1),
		RunE: runDetect,
	}

	addOverrideFlags(cmd)
	cmd.Flags().StringP("region", "r", "", "Only search x1,y1,x2,y2")
	cmd.Flags().BoolP("describe", "d", false, "Include hex descriptors")

	return cmd
}

type detectOutput struct {
	*pipeline.Extraction
	Features []pipeline.DescribedKeypoint `json:"features,omitempty"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	o, err := overridesFromFlags(cmd)
	if err != nil {
		return err
	}
	region, _ := cmd.Flags().GetString("region")
	if o.Region, err = parseRegion(region); err != nil {
		return err
	}

	ex, err := runner.Extract(args[0], o)
	if err != nil {
		return err
	}

	out := detectOutput{Extraction: ex}
	if describe, _ := cmd.Flags().GetBool("describe"); describe {
		out.Features = ex.Described()
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
