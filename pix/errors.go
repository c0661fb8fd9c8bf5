package pix

import "errors"

var (
	// ErrInvalidDepth is returned when an image or colormap depth is not
	// supported by the requested operation
	ErrInvalidDepth = errors.New("invalid depth")
	// ErrColormapFull is returned when adding a color to a colormap already
	// at capacity
	ErrColormapFull = errors.New("colormap full")
	// ErrIndexRange is returned for colormap indices outside [0, Count)
	ErrIndexRange = errors.New("colormap index out of range")
	// ErrColormapDepth is returned when a colormap cannot be attached to an
	// image
	ErrColormapDepth = errors.New("colormap incompatible with image depth")
	// ErrNoColormap is returned by operations that need a colormapped image
	ErrNoColormap = errors.New("no colormap")
	// ErrFormat is returned for unknown or malformed encodings
	ErrFormat = errors.New("unsupported format")
)
