package main

import (
	"fmt"
	"strconv"

	"github.com/Carmen-Shannon/oxy-viewport/engine/export"
	"github.com/spf13/cobra"
)

var (
	tilesSize      int
	tilesViewpoint string
	tilesOrtho     float64
)

var tilesCmd = &cobra.Command{
	Use:   "tiles [width] [height]",
	Short: "Print the tile plan for a high-resolution export",
	Long:  "Splits a width x height export into tiles and prints each tile's position, size and frustum.",
	Args:  cobra.ExactArgs(2),
	RunE:  runTiles,
}

func init() {
	tilesCmd.Flags().IntVarP(&tilesSize, "tile", "t", export.DefaultTileSize, "Tile edge length in pixels")
	tilesCmd.Flags().StringVar(&tilesViewpoint, "viewpoint", "home", "Preset viewpoint")
	tilesCmd.Flags().Float64Var(&tilesOrtho, "ortho", 0, "Orthographic view height; 0 keeps perspective")
	rootCmd.AddCommand(tilesCmd)
}

func runTiles(cmd *cobra.Command, args []string) error {
	width, height, err := parseSize(args[0], args[1])
	if err != nil {
		return err
	}
	cam, err := presetCamera(tilesViewpoint, tilesOrtho)
	if err != nil {
		return err
	}
	tiles, err := export.Plan(cam, width, height, tilesSize, tilesSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d tiles for %dx%d at %dpx\n", len(tiles), width, height, tilesSize)
	for _, t := range tiles {
		fmt.Fprintf(out, "  [%d,%d] at (%d,%d) size %dx%d\n", t.Row, t.Col, t.X, t.Y, t.Width, t.Height)
	}
	return nil
}

// parseSize parses a positive width and height.
func parseSize(w, h string) (int, int, error) {
	width, err := strconv.Atoi(w)
	if err != nil || width < 1 {
		return 0, 0, fmt.Errorf("invalid width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height < 1 {
		return 0, 0, fmt.Errorf("invalid height %q", h)
	}
	return width, height, nil
}
