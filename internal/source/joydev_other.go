//go:build !linux

package source

import "github.com/soar/padstate/internal/logger"

func newJoydev(logger.Logger) (Source, error) {
	return nil, ErrUnsupported
}
