package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewport/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/Carmen-Shannon/oxy-viewport/engine/viewport"
	"github.com/spf13/cobra"
)

var (
	resolveTool      string
	resolveModifiers []string
	resolveWidth     int
	resolveHeight    int
	resolveViewpoint string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [x] [y]",
	Short: "Resolve the track tool under a pointer position in the demo scene",
	Long: `Hovers the pointer at (x, y), bottom-left origin, over three cubes with the middle one
selected, and prints the track tool and cursor the viewport would use for a drag.`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveTool, "tool", "Move", "High-level tool")
	resolveCmd.Flags().StringSliceVar(&resolveModifiers, "modifiers", nil, "Held modifiers (shift, control, alt)")
	resolveCmd.Flags().IntVar(&resolveWidth, "width", 800, "Viewport width in pixels")
	resolveCmd.Flags().IntVar(&resolveHeight, "height", 600, "Viewport height in pixels")
	resolveCmd.Flags().StringVar(&resolveViewpoint, "viewpoint", "home", "Preset viewpoint")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	var x, y float64
	if _, err := fmt.Sscanf(args[0]+" "+args[1], "%g %g", &x, &y); err != nil {
		return fmt.Errorf("invalid pointer position %q %q", args[0], args[1])
	}
	tool, err := tracktool.ParseTool(resolveTool)
	if err != nil {
		return err
	}
	mods, err := parseModifiers(resolveModifiers)
	if err != nil {
		return err
	}
	cam, err := presetCamera(resolveViewpoint, 0)
	if err != nil {
		return err
	}

	model, _ := demoModel()
	result := resolveAt(model, cam, tool, resolveWidth, resolveHeight, x, y, mods)
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", result.Tool, result.Cursor)
	return nil
}

type resolution struct {
	Tool   tracktool.TrackTool
	Cursor viewport.CursorShape
}

// resolveAt hovers a throwaway viewport over model and reports what it resolved.
func resolveAt(model scene.ActiveModel, cam camera.Camera, tool tracktool.Tool, width, height int, x, y float64, mods common.Modifier) resolution {
	v := viewport.NewViewport(viewport.NewManager(), model,
		viewport.WithCamera(cam),
		viewport.WithSize(width, height),
		viewport.WithTool(tool),
	)
	defer v.Close()
	v.OnMouseMove(x, y, mods)
	return resolution{Tool: v.TrackTool(), Cursor: v.Cursor()}
}

// parseModifiers ORs together named modifiers.
func parseModifiers(names []string) (common.Modifier, error) {
	var mods common.Modifier
	for _, name := range names {
		m, ok := common.ParseModifier(name)
		if !ok {
			return common.ModifierNone, fmt.Errorf("unknown modifier %q", name)
		}
		mods |= m
	}
	return mods, nil
}
