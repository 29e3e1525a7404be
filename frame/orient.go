package frame

import "fmt"

// Rotation decides whether the frame is turned to portrait before the
// picture is fitted into it.
type Rotation string

const (
	// RotateAuto turns the frame to match the picture's orientation.
	RotateAuto   Rotation = "auto"
	RotateNever  Rotation = "never"
	RotateAlways Rotation = "always"
)

func ParseRotation(s string) (Rotation, error) {
	switch r := Rotation(s); r {
	case RotateAuto, RotateNever, RotateAlways:
		return r, nil
	}
	return "", fmt.Errorf("invalid rotation %q, should be auto, never or always", s)
}

func isPortrait(width, height int) bool {
	return height > width
}

// size returns the frame dimensions to use for a picture of imgW x imgH.
func (r Rotation) size(imgW, imgH, width, height int) (int, int) {
	switch r {
	case RotateAlways:
		return height, width
	case RotateAuto:
		if isPortrait(imgW, imgH) != isPortrait(width, height) && width != height {
			return height, width
		}
	}
	return width, height
}
