package main

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/config"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "viewportctl",
	Short: "Inspect and drive the 3D editing viewport",
	Long: `viewportctl exercises the viewport core from the command line: projection matrices,
export tile plans, gizmo track-tool resolution, tiled image export and an interactive
window onto a demo scene.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Preferences TOML file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadPreferences returns the preferences from path, or the defaults when path is empty.
func loadPreferences(path string) (config.Preferences, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// demoModel builds a row of three 20-unit cubes along X with the middle one selected.
func demoModel(options ...scene.MemoryModelBuilderOption) (scene.MemoryModel, *scene.Piece) {
	m := scene.NewMemoryModel(options...)
	info := scene.PieceInfo{
		Name:        "cube",
		BoundingBox: common.BoundingBox{Min: mgl64.Vec3{-10, -10, -10}, Max: mgl64.Vec3{10, 10, 10}},
	}
	m.AddPiece(info, mgl64.Translate3D(-60, 0, 0))
	middle := m.AddPiece(info, mgl64.Ident4())
	m.AddPiece(info, mgl64.Translate3D(60, 0, 0))
	m.Select(middle.ID())
	return m, middle
}

// formatMatrix prints m row by row.
func formatMatrix(m mgl64.Mat4) string {
	var out string
	for row := 0; row < 4; row++ {
		r := m.Row(row)
		out += fmt.Sprintf("  [% 12.6f % 12.6f % 12.6f % 12.6f]\n", r[0], r[1], r[2], r[3])
	}
	return out
}
