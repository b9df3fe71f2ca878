// Package statsview serves the go-echarts runtime dashboard when enabled.
//
// After launch, graphs are at <addr>/debug/statsview and the standard pprof
// pages at <addr>/debug/pprof/.
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/soar/padstate/internal/logger"
)

const path = "/debug/statsview"

// Launch starts the dashboard on addr in a new goroutine and returns a
// function that stops it. An empty addr launches nothing.
func Launch(addr string, log logger.Logger) (stop func()) {
	if addr == "" {
		return func() {}
	}

	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go mgr.Start()

	log.Info("stats server available at http://%s%s", addr, path)
	return func() { mgr.Stop() }
}
