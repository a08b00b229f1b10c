package config

import "errors"

var (
	ErrNodeNotFound = errors.New("config: node not found")

	ErrAttrNotFound = errors.New("config: attribute not found")

	// ErrBadAttr indicates an attribute whose text does not parse as the
	// requested type.
	ErrBadAttr = errors.New("config: malformed attribute")

	ErrBadDocument = errors.New("config: malformed document")

	ErrUnsupportedFormat = errors.New("config: unsupported document format")
)
