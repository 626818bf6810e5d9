// Package scene loads world descriptions from YAML or JSON and turns them
// into simulated objects.
package scene

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/core/systems/physics"
)

//go:embed default.yaml
var defaultScene []byte

// Config is a complete scene: world parameters plus the initial objects in
// insertion order.
type Config struct {
	World   physics.WorldConfig `json:"world" yaml:"world"`
	Objects []Object            `json:"objects" yaml:"objects"`
}

// Object describes one game object. A zero transform scale means (1, 1).
type Object struct {
	Name               string             `json:"name" yaml:"name"`
	Shape              Shape              `json:"shape" yaml:"shape"`
	Transform          physics.Transform  `json:"transform" yaml:"transform"`
	Body               physics.BodyConfig `json:"body" yaml:"body"`
	LinearVelocity     physics.Vec2       `json:"linear_velocity,omitempty" yaml:"linear_velocity,omitempty"`
	RotationalVelocity float64            `json:"rotational_velocity,omitempty" yaml:"rotational_velocity,omitempty"`
}

func newConfig() *Config {
	return &Config{World: physics.DefaultWorldConfig()}
}

// LoadJSON loads a scene from a JSON reader.
func LoadJSON(r io.Reader) (*Config, error) {
	c := newConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return c, nil
}

// LoadYAML loads a scene from a YAML reader.
func LoadYAML(r io.Reader) (*Config, error) {
	c := newConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return c, nil
}

// LoadFile picks the decoder from the file extension. Anything other than
// .json is read as YAML.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	return LoadYAML(f)
}

// Default returns the built-in demo scene.
func Default() *Config {
	c, err := LoadYAML(bytes.NewReader(defaultScene))
	if err != nil {
		panic(fmt.Sprintf("scene: embedded default scene: %v", err))
	}
	return c
}

// Build constructs every object. All invalid objects are reported together.
func (c *Config) Build() ([]*physics.GameObject, error) {
	if len(c.Objects) == 0 {
		return nil, ErrEmptyScene
	}

	objects := make([]*physics.GameObject, 0, len(c.Objects))
	var errs []error
	for i, o := range c.Objects {
		obj, err := o.Build()
		if err != nil {
			errs = append(errs, fmt.Errorf("object %d (%s): %w", i, o.Name, err))
			continue
		}
		objects = append(objects, obj)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return objects, nil
}

// NewWorld builds the objects and places them in a world configured from
// the scene.
func (c *Config) NewWorld(logger log.Log) (*physics.World, error) {
	objects, err := c.Build()
	if err != nil {
		return nil, err
	}
	w := physics.NewWorld(c.World, logger)
	if err = w.AddObjects(objects...); err != nil {
		return nil, err
	}
	return w, nil
}

func (o Object) Build() (*physics.GameObject, error) {
	collider, err := o.Shape.Collider()
	if err != nil {
		return nil, err
	}

	transform := o.Transform
	if transform.Scale == (physics.Vec2{}) {
		transform.Scale = physics.V(1, 1)
	}

	body, err := physics.NewRigidBody(o.Body, transform)
	if err != nil {
		return nil, err
	}
	if !body.IsStatic() {
		body.LinearVelocity = o.LinearVelocity
		body.RotationalVelocity = o.RotationalVelocity
	}

	obj, err := physics.NewGameObject(collider, body)
	if err != nil {
		return nil, err
	}
	obj.Name = o.Name
	return obj, nil
}
