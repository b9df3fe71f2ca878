//go:build !glfw

package source

import (
	"fmt"

	"github.com/soar/padstate/internal/logger"
)

func newGLFW(logger.Logger) (Source, error) {
	return nil, fmt.Errorf("%w: built without the glfw tag", ErrUnsupported)
}
