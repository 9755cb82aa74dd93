package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/viewport"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// KeyEscape is the key code reported for the Escape key.
const KeyEscape = uint32(glfw.KeyEscape)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool

	// cursors caches the standard cursors created so far.
	cursors map[glfw.StandardCursor]*glfw.Cursor
	shape   viewport.CursorShape
}

// standardCursors maps viewport cursor shapes onto the few shapes GLFW provides.
// Unlisted shapes use the crosshair.
var standardCursors = map[viewport.CursorShape]glfw.StandardCursor{
	viewport.CursorDefault:      glfw.ArrowCursor,
	viewport.CursorSelect:       glfw.ArrowCursor,
	viewport.CursorSelectAdd:    glfw.ArrowCursor,
	viewport.CursorSelectRemove: glfw.ArrowCursor,
	viewport.CursorMove:         glfw.HandCursor,
	viewport.CursorPan:          glfw.HandCursor,
	viewport.CursorRotateX:      glfw.HResizeCursor,
	viewport.CursorRotateY:      glfw.VResizeCursor,
	viewport.CursorColorPicker:  glfw.IBeamCursor,
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %v", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
		cursors: make(map[glfw.StandardCursor]*glfw.Cursor),
		shape:   viewport.CursorDefault,
	}
	w.internalWindow = gw
	platformSetCursor(w, w.cursor)

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key), gw.modifiers())
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key), gw.modifiers())
			}
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetScrollCallback
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(yoff)
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMouseButtonCallback
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b, ok := mouseButtonFromGLFW(button)
		if !ok || w.onMouseButton == nil {
			return
		}
		x, y := gw.toPixels(win.GetCursorPos())
		w.onMouseButton(b, action == glfw.Press, x, y, modifiersFromGLFW(mods))
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onMouseMove != nil {
			x, y := gw.toPixels(xpos, ypos)
			w.onMouseMove(x, y, gw.modifiers())
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

// toPixels converts GLFW screen coordinates into framebuffer pixels.
func (gw *glfwWindow) toPixels(x, y float64) (float64, float64) {
	winWidth, winHeight := gw.window.GetSize()
	if winWidth <= 0 || winHeight <= 0 {
		return x, y
	}
	return x * float64(gw.parent.width) / float64(winWidth), y * float64(gw.parent.height) / float64(winHeight)
}

// modifiers polls the modifier keys. Key callbacks report the state from before the event
// on some platforms, so the keys are read directly.
func (gw *glfwWindow) modifiers() common.Modifier {
	down := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if gw.window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}

	var m common.Modifier
	if down(glfw.KeyLeftShift, glfw.KeyRightShift) {
		m |= common.ModifierShift
	}
	if down(glfw.KeyLeftControl, glfw.KeyRightControl) {
		m |= common.ModifierControl
	}
	if down(glfw.KeyLeftAlt, glfw.KeyRightAlt) {
		m |= common.ModifierAlt
	}
	return m
}

func modifiersFromGLFW(mods glfw.ModifierKey) common.Modifier {
	var m common.Modifier
	if mods&glfw.ModShift != 0 {
		m |= common.ModifierShift
	}
	if mods&glfw.ModControl != 0 {
		m |= common.ModifierControl
	}
	if mods&glfw.ModAlt != 0 {
		m |= common.ModifierAlt
	}
	return m
}

func mouseButtonFromGLFW(button glfw.MouseButton) (common.MouseButton, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return common.MouseButtonLeft, true
	case glfw.MouseButtonMiddle:
		return common.MouseButtonMiddle, true
	case glfw.MouseButtonRight:
		return common.MouseButtonRight, true
	}
	return common.MouseButtonNone, false
}

// platformSetCursor swaps the GLFW cursor when the shape changes.
func platformSetCursor(w *engineWindow, shape viewport.CursorShape) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	if gw.shape == shape {
		return
	}
	gw.shape = shape

	std, ok := standardCursors[shape]
	if !ok {
		std = glfw.CrosshairCursor
	}
	c, ok := gw.cursors[std]
	if !ok {
		c = glfw.CreateStandardCursor(std)
		gw.cursors[std] = c
	}
	gw.window.SetCursor(c)
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
//
// Parameters:
//   - w: the engineWindow to check
//
// Returns:
//   - bool: true if the window is still running
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the cursors and the GLFW window and terminates the GLFW library.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	for _, c := range gw.cursors {
		c.Destroy()
	}
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
