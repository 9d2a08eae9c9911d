package mask

import (
	"errors"
	"fmt"
)

// ErrMaskNotGenerated is returned by grid operations called before Generate.
var ErrMaskNotGenerated = errors.New("mask not generated")

// ContrastError is returned when an image yields no dark pixels.
type ContrastError struct {
	Ref       string
	Threshold int
}

func (e *ContrastError) Error() string {
	return fmt.Sprintf("image %q lacked sufficient contrast (threshold=%d)", e.Ref, e.Threshold)
}

// SizeError is returned when a mask is generated at an unusable size.
type SizeError struct {
	Name    string
	Size    int
	MinSize int
}

func (e *SizeError) Error() string {
	if e.MinSize > 0 && e.Size > 0 {
		return fmt.Sprintf("puzzle size >= %d required for a %s mask, got %d", e.MinSize, e.Name, e.Size)
	}
	return fmt.Sprintf("mask size must be positive, got %d", e.Size)
}

// ParamError reports an invalid shape parameter.
type ParamError struct {
	Kind   Kind
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s mask: %s", e.Kind, e.Reason)
}
