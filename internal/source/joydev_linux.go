package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/logger"
)

const (
	inputPath  = "/dev/input"
	jsiocgname = 0x80006a13 + (128 << 16)
)

type joydevDevice struct {
	name  string
	file  *os.File
	mu    sync.Mutex
	state joydevState
}

// joydevSource reads /dev/input/js* directly. The raw index is the js
// number.
type joydevSource struct {
	Notifier
	log logger.Logger

	mu      sync.Mutex
	devices map[int]*joydevDevice

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newJoydev(log logger.Logger) (Source, error) {
	return &joydevSource{log: log, devices: make(map[int]*joydevDevice)}, nil
}

func (s *joydevSource) Open() error {
	entries, err := os.ReadDir(inputPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInit, err)
	}

	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC | unix.IN_NONBLOCK)
	if err != nil {
		return fmt.Errorf("%w: inotify init: %v", ErrInit, err)
	}
	if _, err = unix.InotifyAddWatch(fd, inputPath, unix.IN_CREATE|unix.IN_DELETE|unix.IN_ATTRIB); err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("%w: inotify add watch: %v", ErrInit, err)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	for _, entry := range entries {
		if n, ok := jsNumber(entry.Name()); ok {
			s.openDevice(n, entry.Name())
		}
	}

	s.wg.Add(1)
	go s.watch(fd)
	return nil
}

func (s *joydevSource) Close() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	s.mu.Lock()
	for n, d := range s.devices {
		_ = d.file.Close()
		delete(s.devices, n)
	}
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *joydevSource) watch(fd int) {
	defer s.wg.Done()
	defer unix.Close(fd)

	buf := make([]byte, 4096)
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if n, err := unix.Poll(fds, 250); err != nil || n == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			continue
		}

		var offset uint32
		for offset+unix.SizeofInotifyEvent <= uint32(n) {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameBytes := buf[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+event.Len]
			name := string(bytes.TrimRight(nameBytes, "\x00"))
			s.handleEvent(event.Mask, name)
			offset += unix.SizeofInotifyEvent + event.Len
		}
	}
}

func (s *joydevSource) handleEvent(mask uint32, name string) {
	n, ok := jsNumber(name)
	if !ok {
		return
	}

	switch {
	case mask&(unix.IN_CREATE|unix.IN_ATTRIB) != 0:
		if s.openDevice(n, name) {
			s.NotifyConnected(n)
		}
	case mask&unix.IN_DELETE != 0:
		if s.closeDevice(n) {
			s.NotifyDisconnected(n)
		}
	}
}

// openDevice starts reading jsN. It fails quietly while udev has not yet
// granted access; the IN_ATTRIB that follows retries.
func (s *joydevSource) openDevice(n int, name string) bool {
	s.mu.Lock()
	_, exists := s.devices[n]
	s.mu.Unlock()
	if exists {
		return false
	}

	f, err := os.OpenFile(filepath.Join(inputPath, name), os.O_RDONLY, 0)
	if err != nil {
		return false
	}

	d := &joydevDevice{name: deviceName(f), file: f}

	s.mu.Lock()
	s.devices[n] = d
	s.mu.Unlock()

	s.log.Info("joystick connected: %s (js%d)", d.name, n)

	s.wg.Add(1)
	go s.read(n, d)
	return true
}

func (s *joydevSource) closeDevice(n int) bool {
	s.mu.Lock()
	d, ok := s.devices[n]
	delete(s.devices, n)
	s.mu.Unlock()
	if !ok {
		return false
	}

	_ = d.file.Close()
	s.log.Info("joystick disconnected: %s (js%d)", d.name, n)
	return true
}

func (s *joydevSource) read(n int, d *joydevDevice) {
	defer s.wg.Done()

	buf := make([]byte, jsEventSize)
	for {
		if _, err := io.ReadFull(d.file, buf); err != nil {
			// unplugged or closed; IN_DELETE reports the removal
			return
		}
		d.mu.Lock()
		d.state.apply(decodeJSEvent(buf))
		d.mu.Unlock()
	}
}

// Snapshots implements gamepad.Source.
func (s *joydevSource) Snapshots() []gamepad.RawSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil {
		return nil
	}

	out := []gamepad.RawSnapshot{}
	for _, n := range slices.Sorted(maps.Keys(s.devices)) {
		d := s.devices[n]
		d.mu.Lock()
		f := d.state.frame()
		d.mu.Unlock()

		buttons, axes := joydevMapping.Apply(f)
		out = append(out, gamepad.RawSnapshot{
			Index:   n,
			Name:    d.name,
			Buttons: buttons,
			Axes:    axes,
		})
	}
	return out
}

// deviceName asks the driver for the device name. The ioctl goes through
// SyscallConn so the file stays in non-blocking mode and Close can interrupt
// the reader.
func deviceName(f *os.File) string {
	fallback := filepath.Base(f.Name())

	rc, err := f.SyscallConn()
	if err != nil {
		return fallback
	}

	info := make([]byte, 128)
	var errno unix.Errno
	err = rc.Control(func(fd uintptr) {
		_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, jsiocgname, uintptr(unsafe.Pointer(&info[0])))
	})
	if err != nil || errno != 0 {
		return fallback
	}
	return string(bytes.TrimRight(info, "\x00"))
}
