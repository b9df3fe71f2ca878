// Package recorder logs pad transitions to a parquet file.
package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/logger"
)

const (
	bufferSize    = 4096
	flushInterval = time.Second
)

// Row is one recorded transition.
type Row struct {
	Session     string  `parquet:"name=session, type=BYTE_ARRAY, convertedtype=UTF8"`
	TimestampMs int64   `parquet:"name=timestamp_ms, type=INT64"`
	Pad         int32   `parquet:"name=pad, type=INT32"`
	Kind        string  `parquet:"name=kind, type=BYTE_ARRAY, convertedtype=UTF8"`
	Code        int32   `parquet:"name=code, type=INT32"`
	Value       float64 `parquet:"name=value, type=DOUBLE"`
}

// Recorder writes transitions from a background goroutine so the loop
// thread never waits on disk.
type Recorder struct {
	session string
	log     logger.Logger

	writer *writer.ParquetWriter
	file   source.ParquetFile

	ch       chan Row
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
	err      error
}

// New creates path and starts the writer. Every row carries session.
func New(path, session string, log logger.Logger) (*Recorder, error) {
	if log == nil {
		log = logger.Discard{}
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, new(Row), 4)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("create parquet writer: %w", err)
	}

	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	pw.RowGroupSize = 128 * 1024 * 1024 // 128MB
	pw.PageSize = 8 * 1024              // 8KB

	r := &Recorder{
		session:  session,
		log:      log,
		writer:   pw,
		file:     fw,
		ch:       make(chan Row, bufferSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}

	go r.loop()
	log.Info("recording transitions to %s (session %s)", path, session)
	return r, nil
}

// Listeners returns callbacks for the pad pool.
func (r *Recorder) Listeners() gamepad.Listeners {
	return gamepad.TransitionListeners(r.Record)
}

// Record enqueues a transition. It is dropped if the buffer is full.
func (r *Recorder) Record(tr gamepad.Transition) {
	row := Row{
		Session:     r.session,
		TimestampMs: tr.Time.UnixMilli(),
		Pad:         int32(tr.Pad),
		Kind:        tr.Kind,
		Code:        int32(tr.Code),
		Value:       tr.Value,
	}
	select {
	case r.ch <- row:
	default:
		// channel full: drop event to avoid blocking
	}
}

func (r *Recorder) loop() {
	defer close(r.finished)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case row := <-r.ch:
			r.write(row)

		case <-ticker.C:
			if err := r.writer.Flush(true); err != nil {
				r.log.Warn("parquet flush: %v", err)
			}

		case <-r.done:
			// drain remaining rows
			for {
				select {
				case row := <-r.ch:
					r.write(row)
				default:
					r.err = r.finish()
					return
				}
			}
		}
	}
}

func (r *Recorder) write(row Row) {
	if err := r.writer.Write(row); err != nil {
		r.log.Warn("parquet write: %v", err)
	}
}

func (r *Recorder) finish() error {
	if err := r.writer.WriteStop(); err != nil {
		_ = r.file.Close()
		return fmt.Errorf("parquet write stop: %w", err)
	}
	return r.file.Close()
}

// Close drains pending rows, finalizes the file and waits for the writer.
func (r *Recorder) Close() error {
	r.once.Do(func() { close(r.done) })
	<-r.finished
	return r.err
}
