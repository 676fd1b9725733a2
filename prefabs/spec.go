package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is a prefab: a name plus raw component specs keyed by
// component name. Each component is decoded by its builder.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
}

type PonderableComponentSpec struct {
	// Kind is "freefalling" or "vacuumed".
	Kind          string  `yaml:"kind"`
	Inactive      bool    `yaml:"inactive"`
	Frozen        bool    `yaml:"frozen"`
	VelocityX     float64 `yaml:"velocity_x"`
	VelocityY     float64 `yaml:"velocity_y"`
	AccelerationX float64 `yaml:"acceleration_x"`
	AccelerationY float64 `yaml:"acceleration_y"`
}

type ColliderComponentSpec struct {
	Surface  string `yaml:"surface"`
	Disabled bool   `yaml:"disabled"`
}

type EventColliderComponentSpec struct {
	Script string `yaml:"script"`
}

type PlayerComponentSpec struct {
	MoveSpeed    float64 `yaml:"move_speed"`
	JumpSpeed    float64 `yaml:"jump_speed"`
	CoyoteFrames int     `yaml:"coyote_frames"`
}

type PersistentComponentSpec struct {
	ID                string `yaml:"id"`
	KeepOnLevelChange bool   `yaml:"keep_on_level_change"`
	KeepOnReload      bool   `yaml:"keep_on_reload"`
}

type TintComponentSpec struct {
	Color YAMLColor `yaml:"color"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
