package scene

import "errors"

var (
	ErrUnknownShape = errors.New("unknown shape type")
	ErrEmptyScene   = errors.New("scene has no objects")
)
