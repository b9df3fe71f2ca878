//go:build !windows

package source

import "github.com/soar/padstate/internal/logger"

func newXInput(logger.Logger) (Source, error) {
	return nil, ErrUnsupported
}
