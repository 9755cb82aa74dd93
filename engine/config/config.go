// Package config loads user preferences for the viewport from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Carmen-Shannon/oxy-viewport/common"
	"github.com/Carmen-Shannon/oxy-viewport/engine/export"
	"github.com/Carmen-Shannon/oxy-viewport/engine/navigator"
	"github.com/Carmen-Shannon/oxy-viewport/engine/tracktool"
	"github.com/Carmen-Shannon/oxy-viewport/engine/transform"
)

// ErrInvalidPreferences is returned by Validate for out-of-range or unknown values.
var ErrInvalidPreferences = errors.New("invalid preferences")

// Shortcut binds a mouse button plus modifiers to a tool for the length of a drag.
type Shortcut struct {
	Button    string   `toml:"button"`
	Modifiers []string `toml:"modifiers"`
	Tool      string   `toml:"tool"`
}

// ExportPreferences configures tiled image export.
type ExportPreferences struct {
	TileSize    int    `toml:"tile_size"`
	Workers     int    `toml:"workers"`
	Supersample int    `toml:"supersample"`
	Format      string `toml:"format"`
}

// Preferences are the user settings the viewport reads.
type Preferences struct {
	MouseSensitivity  int               `toml:"mouse_sensitivity"`
	WheelStep         float64           `toml:"wheel_step"`
	WheelStepFast     float64           `toml:"wheel_step_fast"`
	GridSize          float64           `toml:"grid_size"`
	RelativeTransform bool              `toml:"relative_transform"`
	Debug             bool              `toml:"debug"`
	MouseShortcuts    []Shortcut        `toml:"mouse_shortcut"`
	Export            ExportPreferences `toml:"export"`
}

// Default returns the stock preferences, matching tracktool.DefaultBindings.
func Default() Preferences {
	return Preferences{
		MouseSensitivity: transform.DefaultMouseSensitivity,
		WheelStep:        navigator.WheelStep,
		WheelStepFast:    navigator.WheelStepFast,
		MouseShortcuts: []Shortcut{
			{Button: "middle", Tool: "Pan"},
			{Button: "left", Modifiers: []string{"alt"}, Tool: "RotateView"},
			{Button: "middle", Modifiers: []string{"alt"}, Tool: "Pan"},
			{Button: "right", Modifiers: []string{"alt"}, Tool: "Zoom"},
		},
		Export: ExportPreferences{
			TileSize:    export.DefaultTileSize,
			Workers:     export.DefaultWorkers,
			Supersample: 1,
			Format:      export.FormatWebP.String(),
		},
	}
}

// Load reads preferences from a TOML file. Keys missing from the file keep their defaults
// and unknown keys are logged and ignored.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Preferences: the validated preferences
//   - error: an error if the file cannot be read or parsed, or fails Validate
func Load(path string) (Preferences, error) {
	p := Default()
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Preferences{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return p, finish(p, md)
}

// Decode reads preferences from TOML in r, like Load.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Preferences: the validated preferences
//   - error: an error if the input cannot be parsed or fails Validate
func Decode(r io.Reader) (Preferences, error) {
	p := Default()
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Preferences{}, fmt.Errorf("config: decode: %w", err)
	}
	return p, finish(p, md)
}

func finish(p Preferences, md toml.MetaData) error {
	for _, key := range md.Undecoded() {
		log.Printf("[Config] ignoring unknown key %s", key)
	}
	return p.Validate()
}

// Write encodes p as TOML.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: an error if encoding failed
func (p Preferences) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

// Validate checks every value. All problems are reported together.
//
// Returns:
//   - error: an error wrapping ErrInvalidPreferences, or nil
func (p Preferences) Validate() error {
	var problems []string
	if p.MouseSensitivity < 1 || p.MouseSensitivity > 20 {
		problems = append(problems, fmt.Sprintf("mouse_sensitivity %d outside 1-20", p.MouseSensitivity))
	}
	if p.WheelStep <= 0 || p.WheelStepFast <= 0 {
		problems = append(problems, "wheel steps must be positive")
	}
	if p.GridSize < 0 {
		problems = append(problems, fmt.Sprintf("grid_size %v is negative", p.GridSize))
	}
	if p.Export.TileSize < 1 || p.Export.Workers < 1 {
		problems = append(problems, "export tile_size and workers must be at least 1")
	}
	if p.Export.Supersample < 1 || p.Export.Supersample > export.MaxSupersample {
		problems = append(problems, fmt.Sprintf("export supersample %d outside 1-%d", p.Export.Supersample, export.MaxSupersample))
	}
	if _, err := export.ParseFormat(p.Export.Format); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := p.Bindings(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %s: %w", strings.Join(problems, "; "), ErrInvalidPreferences)
	}
	return nil
}

// Bindings converts MouseShortcuts into a binding set.
//
// Returns:
//   - tracktool.Bindings: the bindings
//   - error: an error naming the first unknown button, modifier or tool
func (p Preferences) Bindings() (tracktool.Bindings, error) {
	bindings := make([]tracktool.Binding, 0, len(p.MouseShortcuts))
	for _, s := range p.MouseShortcuts {
		button, ok := common.ParseMouseButton(s.Button)
		if !ok {
			return tracktool.Bindings{}, fmt.Errorf("config: unknown mouse button %q", s.Button)
		}
		var mods common.Modifier
		for _, name := range s.Modifiers {
			m, ok := common.ParseModifier(name)
			if !ok {
				return tracktool.Bindings{}, fmt.Errorf("config: unknown modifier %q", name)
			}
			mods |= m
		}
		tool, err := tracktool.ParseTool(s.Tool)
		if err != nil {
			return tracktool.Bindings{}, fmt.Errorf("config: shortcut %s: %w", s.Button, err)
		}
		bindings = append(bindings, tracktool.Binding{Button: button, Modifiers: mods, Tool: tool})
	}
	return tracktool.NewBindings(bindings...), nil
}
