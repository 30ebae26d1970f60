package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-features-mcp/internal/imaging"
	"github.com/ironsheep/image-features-mcp/internal/pipeline"
)

// NewMatchCmd creates the match command.
func NewMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <image-a> <image-b>",
		Short: "Match keypoints between two images and print the pairs as JSON",
		Long: `Match extracts features from both images and pairs every keypoint of the
first image with the closest unused keypoint of the second.

Examples:
  # Greedy matches
  image-features-mcp match left.png right.png

  # Mutual nearest neighbours only, with a side-by-side overlay
  image-features-mcp match --cross-check --overlay matches.png left.png right.png`,
		Args: cobra.ExactArgs(2),
		RunE: runMatch,
	}

	addOverrideFlags(cmd)
	cmd.Flags().BoolP("cross-check", "x", false, "Keep only mutual nearest neighbours")
	cmd.Flags().BoolP("strict", "s", false, "Fail unless both images yield the same number of keypoints")
	cmd.Flags().StringP("overlay", "o", "", "Write a side-by-side PNG of the matches to this file")

	return cmd
}

func runMatch(cmd *cobra.Command, args []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	o, err := overridesFromFlags(cmd)
	if err != nil {
		return err
	}
	var mo pipeline.MatchOptions
	mo.CrossCheck, _ = cmd.Flags().GetBool("cross-check")
	mo.Strict, _ = cmd.Flags().GetBool("strict")

	cmp, err := runner.Match(args[0], o, args[1], o, mo)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("overlay"); path != "" {
		if err := writeMatchOverlay(runner.Cache(), path, args[0], args[1], cmp); err != nil {
			return err
		}
		if runner.Debug {
			log.Printf("Wrote match overlay %s", path)
		}
	}

	return writeJSON(cmd.OutOrStdout(), cmp)
}

func writeMatchOverlay(cache *imaging.ImageCache, path, pathA, pathB string, cmp *pipeline.Comparison) error {
	imgA, err := cache.Load(pathA)
	if err != nil {
		return err
	}
	imgB, err := cache.Load(pathB)
	if err != nil {
		return err
	}
	rendered, err := imaging.RenderMatches(imgA, imgB, cmp.A.Keypoints, cmp.B.Keypoints, cmp.Pairs)
	if err != nil {
		return err
	}
	data, err := imaging.EncodePNG(rendered)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Overlay is a user-requested output file
		return fmt.Errorf("failed to write overlay: %w", err)
	}
	return nil
}
