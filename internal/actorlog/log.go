// Package actorlog is an asynchronous, level-filtered structured logger,
// adapted from framework/log's CommonLogger. ActorSystem uses it to
// report recovered panics, unrecognized system messages and dead letters
// (spawns and stops are not logged) without blocking the worker that
// generated the event: records are enqueued on a lock-free
// queue and drained by a dedicated goroutine onto one or more Sinks.
package actorlog

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"actorsys/internal/queue"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelName = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// Record is one logged event, captured at the call site so that formatting
// and sink I/O can happen off the hot path.
type Record struct {
	Level   Level
	Time    time.Time
	Caller  string
	Message string
}

// Sink writes a Record somewhere durable or visible.
type Sink interface {
	Write(r *Record)
}

// Logger queues records and fans them out to its sinks on its own
// goroutine. The zero value is not usable; construct with New.
type Logger struct {
	level Level
	sinks []Sink
	q     *queue.LockFreeQueue
	done  chan struct{}
}

func New() *Logger {
	return &Logger{
		q:    queue.NewLockFreeQueue(),
		done: make(chan struct{}),
	}
}

func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) AddSink(sink Sink) {
	l.sinks = append(l.sinks, sink)
}

// Start begins draining queued records on a background goroutine. It
// should be called once, after all sinks have been added.
func (l *Logger) Start() {
	go l.loop()
}

// Stop signals the draining goroutine to exit once the queue empties.
func (l *Logger) Stop() {
	close(l.done)
}

func (l *Logger) loop() {
	for {
		v := l.q.Dequeue()
		if v == nil {
			select {
			case <-l.done:
				return
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}
		rec := v.(*Record)
		for _, sink := range l.sinks {
			sink.Write(rec)
		}
	}
}

func (l *Logger) log(depth int, level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	rec := &Record{
		Level:   level,
		Time:    time.Now(),
		Message: fmt.Sprintf(format, args...),
	}
	if _, file, line, ok := runtime.Caller(depth + 1); ok {
		rec.Caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	} else {
		rec.Caller = "???:0"
	}
	l.q.Enqueue(rec)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(1, LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(1, LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(1, LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(1, LevelError, format, args...) }

// Noop is a Logger-shaped logger that drops everything; used as the
// ActorSystem default when the caller does not configure one.
func Noop() *Logger {
	l := New()
	l.SetLevel(LevelError + 1)
	l.Start()
	return l
}
