package actorlog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// StdSink writes records to stdout, one line per record.
type StdSink struct {
	mu sync.Mutex
}

func NewStdSink() *StdSink { return &StdSink{} }

func (s *StdSink) Write(r *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stdout, "[%s][%s][%s] %s\n",
		r.Time.Format("2006-01-02 15:04:05.000"), levelName[r.Level], r.Caller, r.Message)
}

// RotateBy controls how often FileSink opens a new log file.
type RotateBy int

const (
	RotateByDay RotateBy = iota
	RotateByHour
)

// FileSink writes records to a rotating file under dir, named by prefix
// and the current rotation window.
type FileSink struct {
	mu       sync.Mutex
	prefix   string
	dir      string
	rotateBy RotateBy
	curName  string
	curFile  *os.File
}

func NewFileSink(prefix, dir string, rotateBy RotateBy) *FileSink {
	if dir == "" {
		dir = "./log/"
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.MkdirAll(dir, 0770)
	}
	return &FileSink{prefix: prefix, dir: dir, rotateBy: rotateBy}
}

func (s *FileSink) fileName(t time.Time) string {
	switch s.rotateBy {
	case RotateByHour:
		return fmt.Sprintf("%s_%s.log", s.prefix, t.Format("2006_01_02_15"))
	default:
		return fmt.Sprintf("%s_%s.log", s.prefix, t.Format("2006_01_02"))
	}
}

func (s *FileSink) Write(r *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.fileName(r.Time)
	if name != s.curName {
		if s.curFile != nil {
			s.curFile.Close()
		}
		f, err := os.OpenFile(s.dir+name, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0660)
		if err != nil {
			return
		}
		s.curFile = f
		s.curName = name
	}
	if s.curFile == nil {
		return
	}
	fmt.Fprintf(s.curFile, "[%s][%s][%s] %s\n",
		r.Time.Format("2006-01-02 15:04:05.000"), levelName[r.Level], r.Caller, r.Message)
}

func (s *FileSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.curFile != nil {
		s.curFile.Close()
	}
}
