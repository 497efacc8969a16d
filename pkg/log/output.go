package log

import (
	"io"
	"os"
)

// ConsoleOutput writes formatted entries to stderr.
type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput() *ConsoleOutput { return &ConsoleOutput{w: os.Stderr} }

func (o *ConsoleOutput) Write(_ *Entry, formatted []byte) error {
	_, err := o.w.Write(formatted)
	return err
}

func (o *ConsoleOutput) Close() error { return nil }

// WriterOutput writes formatted entries to an arbitrary writer (tests, buffers).
type WriterOutput struct {
	W io.Writer
}

func (o *WriterOutput) Write(_ *Entry, formatted []byte) error {
	_, err := o.W.Write(formatted)
	return err
}

func (o *WriterOutput) Close() error { return nil }

// FileOutput appends formatted entries to a file.
type FileOutput struct {
	f *os.File
}

func NewFileOutput(path string) (*FileOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{f: f}, nil
}

func (o *FileOutput) Write(_ *Entry, formatted []byte) error {
	_, err := o.f.Write(formatted)
	return err
}

func (o *FileOutput) Close() error { return o.f.Close() }

// NullOutput discards everything.
type NullOutput struct{}

func (NullOutput) Write(*Entry, []byte) error { return nil }
func (NullOutput) Close() error               { return nil }
