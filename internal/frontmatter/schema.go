// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.yaml.in/yaml/v3"
)

// The schema is decoded level by level into raw nodes so that a missing
// field and a wrongly shaped field are reported against their exact path.
// A node with Kind 0 was absent from the source.

type coilDocument struct {
	Coil yaml.Node `json:"coil" yaml:"coil"`
}

func (d coilDocument) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Coil, present, isMapping),
	)
}

type coilSection struct {
	Options yaml.Node `json:"options" yaml:"options"`
	Files   yaml.Node `json:"files" yaml:"files"`
}

func (s coilSection) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Options, present, isMapping),
		validation.Field(&s.Files, present, isMapping),
	)
}

type coilOptions struct {
	KeepIndentation yaml.Node `json:"keep_indentation" yaml:"keep_indentation"`
}

func (o coilOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.KeepIndentation, present, isBool),
	)
}

var present = validation.By(func(value any) error {
	if n, ok := value.(yaml.Node); ok && n.Kind == 0 {
		return validation.NewError("coil_required", "is required")
	}
	return nil
})

var isMapping = validation.By(func(value any) error {
	n, ok := value.(yaml.Node)
	if !ok || n.Kind == 0 || n.Kind == yaml.MappingNode {
		return nil
	}
	return validation.NewError("coil_mapping", "must be a mapping")
})

var isBool = validation.By(func(value any) error {
	n, ok := value.(yaml.Node)
	if !ok || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool") {
		return nil
	}
	return validation.NewError("coil_bool", "must be true or false")
})
