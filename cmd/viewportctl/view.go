package main

import (
	"log"

	"github.com/Carmen-Shannon/oxy-viewport/engine"
	"github.com/Carmen-Shannon/oxy-viewport/engine/surface"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/Carmen-Shannon/oxy-viewport/engine/viewport"
	"github.com/Carmen-Shannon/oxy-viewport/engine/window"
	"github.com/spf13/cobra"
)

var (
	viewWidth     int
	viewHeight    int
	viewProfile   bool
	viewFrameRate float64
	viewScale     int
	viewSoftware  bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open an interactive window onto the demo scene",
	Long: `Opens a window whose mouse and keyboard input drive a viewport on the demo scene.
Frames are ray cast on the CPU and presented through WebGPU.
Hover the selected cube to pick a gizmo handle, drag to move it, middle-drag to pan and
Alt-drag to orbit. Escape cancels a drag.`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	viewCmd.Flags().IntVar(&viewWidth, "width", 1280, "Window width")
	viewCmd.Flags().IntVar(&viewHeight, "height", 720, "Window height")
	viewCmd.Flags().BoolVar(&viewProfile, "profile", false, "Log frame statistics every second")
	viewCmd.Flags().Float64Var(&viewFrameRate, "fps", 60, "Render frame limit; 0 uncaps")
	viewCmd.Flags().IntVar(&viewScale, "preview-scale", 2, "Render the preview at 1/N of the window size")
	viewCmd.Flags().BoolVar(&viewSoftware, "software", false, "Present through the fallback WebGPU adapter")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	prefs, err := loadPreferences(configPath)
	if err != nil {
		return err
	}
	model, _ := demoModel(engine.ModelOptions(prefs)...)

	w := window.NewWindow(
		window.WithTitle("Viewport"),
		window.WithSize(viewWidth, viewHeight),
		window.WithCursor(viewport.CursorMove),
	)
	eng, err := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithModel(model),
		engine.WithPreferences(prefs),
		engine.WithProfiling(viewProfile),
		engine.WithRenderFrameLimit(viewFrameRate),
		engine.WithPreviewScale(viewScale),
		engine.WithSurfaceOptions(surface.WithFallbackAdapter(viewSoftware)),
		engine.WithViewportOptions(
			viewport.WithTool(tracktool.ToolMove),
			viewport.WithToolChangeHandler(func(tool tracktool.Tool) {
				log.Printf("[View] tool is now %s", tool)
			}),
			viewport.WithContextMenuHandler(func(x, y float64) {
				log.Printf("[View] context menu at %.0f,%.0f", x, y)
			}),
		),
	)
	if err != nil {
		w.Close()
		return err
	}
	eng.Viewport().ZoomExtents()
	eng.SetRenderCallback(func(float32) {
		pivot, scale, ok := eng.Viewport().Overlay()
		if ok && prefs.Debug {
			log.Printf("[View] %s gizmo at %v scale %.3f", eng.Viewport().TrackTool(), pivot.Center, scale)
		}
	})

	eng.Run()
	return nil
}
