//go:build windows

package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExplorerExe(t *testing.T) {
	assert.True(t, isExplorerExe(`C:\Windows\explorer.exe`))
	assert.True(t, isExplorerExe("EXPLORER.EXE"))
	assert.False(t, isExplorerExe(`C:\Windows\System32\cmd.exe`))
	assert.False(t, isExplorerExe(`C:\tools\explorer.exe.bak`))
}
