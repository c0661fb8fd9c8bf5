package octreequant

import "errors"

var (
	// ErrNot32bpp is returned when a quantizer is given anything but a 32 bpp
	// RGB image
	ErrNot32bpp = errors.New("image is not 32 bpp")
	// ErrLevelRange is returned for octree levels outside the supported
	// range of an operation
	ErrLevelRange = errors.New("octree level out of range")
	// ErrColorsRange is returned when the requested color count is outside
	// [MinColors, MaxColors]
	ErrColorsRange = errors.New("color count out of range")
	// ErrTooManyColors is returned when an image holds more occupied
	// octcubes than a colormap can index
	ErrTooManyColors = errors.New("too many colors")
	// ErrEmptyColormap is returned when remapping to a colormap with no
	// entries
	ErrEmptyColormap = errors.New("empty colormap")
	// ErrOptions is returned for invalid Options
	ErrOptions = errors.New("invalid options")
)
