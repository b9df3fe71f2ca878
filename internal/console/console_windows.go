// Package console detects whether the program was started from a terminal
// and installs a Ctrl+C handler that keeps working while the loop thread is
// locked by a native library.
package console

import (
	"log"
	"os"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow      = kernel32.NewProc("GetConsoleWindow")
	procAllocConsole          = kernel32.NewProc("AllocConsole")
	procFreeConsole           = kernel32.NewProc("FreeConsole")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

const (
	ctrlCEvent     = 0
	ctrlBreakEvent = 1
)

// IsRunningFromConsole reports whether the program runs from a terminal
// rather than from a double-click in Explorer.
//
// A console-mode build that was double-clicked frees the console it was
// given so no window lingers. A GUI-mode build started from a terminal gets
// its own console with the standard streams redirected to it.
func IsRunningFromConsole() bool {
	fromExplorer := isLaunchedFromExplorer()

	if hasConsoleWindow() {
		if fromExplorer {
			procFreeConsole.Call()
			return false
		}
		return true
	}

	if fromExplorer {
		return false
	}

	procAllocConsole.Call()
	redirectStdStreams()
	return true
}

func hasConsoleWindow() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	return hwnd != 0
}

// redirectStdStreams points os.Std* at the console allocated after startup.
func redirectStdStreams() {
	stdout, err1 := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	stderr, err2 := windows.GetStdHandle(windows.STD_ERROR_HANDLE)
	if err1 != nil || err2 != nil || stdout == 0 || stderr == 0 {
		return
	}

	os.Stdout = os.NewFile(uintptr(stdout), "/dev/stdout")
	os.Stderr = os.NewFile(uintptr(stderr), "/dev/stderr")
	if stdin, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE); err == nil && stdin != 0 {
		os.Stdin = os.NewFile(uintptr(stdin), "/dev/stdin")
	}

	log.SetOutput(os.Stderr)
}

// isLaunchedFromExplorer checks if the parent process is explorer.exe.
func isLaunchedFromExplorer() bool {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(snapshot)

	procs := make(map[uint32]windows.ProcessEntry32)
	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err = windows.Process32First(snapshot, &entry); err == nil; err = windows.Process32Next(snapshot, &entry) {
		procs[entry.ProcessID] = entry
	}

	self, ok := procs[uint32(os.Getpid())]
	if !ok {
		return false
	}
	parent, ok := procs[self.ParentProcessID]
	if !ok {
		return false
	}
	return isExplorerExe(windows.UTF16ToString(parent.ExeFile[:]))
}

// isExplorerExe checks if the process name is explorer.exe (case-insensitive)
func isExplorerExe(path string) bool {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		path = path[i+1:]
	}
	return strings.EqualFold(path, "explorer.exe")
}

var (
	handlerOnce     sync.Once
	handlerCallback uintptr
	shutdownOnce    sync.Once
	shutdownCh      chan struct{}
)

// SetupConsoleHandler closes shutdown on Ctrl+C or Ctrl+Break. Go's
// os.Interrupt is not delivered reliably while SDL owns the console.
//
// The returned function registers the handler again; call it after a
// library that installs its own handler has been initialized.
func SetupConsoleHandler(shutdown chan struct{}) func() {
	handlerOnce.Do(func() {
		shutdownCh = shutdown
		handlerCallback = windows.NewCallback(func(ctrlType uint32) uintptr {
			if ctrlType == ctrlCEvent || ctrlType == ctrlBreakEvent {
				shutdownOnce.Do(func() { close(shutdownCh) })
				return 1
			}
			return 0
		})
	})

	register := func() {
		if ret, _, _ := procSetConsoleCtrlHandler.Call(handlerCallback, 1); ret == 0 {
			log.Printf("Warning: failed to set console control handler")
		}
	}
	register()
	return register
}
