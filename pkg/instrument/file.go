package instrument

import (
	"io"
	"io/fs"
	"os"
)

// ReadFile reads the named file and counts its length as file-read bytes.
func (i *Instruments) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	i.counters.addFileRead(int64(len(data)))

	return data, err
}

// WriteFile writes data to the named file and counts its length as
// file-write bytes. Only bytes actually handed to the OS are counted, so a
// failed write before any data is flushed contributes nothing.
func (i *Instruments) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := os.WriteFile(name, data, perm); err != nil {
		return err
	}
	i.counters.addFileWrite(int64(len(data)))

	return nil
}

// Open opens the named file for reading through a counting wrapper.
func (i *Instruments) Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	return &File{file: f, counters: i.counters}, nil
}

// Create creates or truncates the named file for writing through a counting
// wrapper.
func (i *Instruments) Create(name string) (*File, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}

	return &File{file: f, counters: i.counters}, nil
}

// File is a counting wrapper over an open file. Reads tally as file-read
// bytes and writes as file-write bytes.
type File struct {
	file     *os.File
	counters *Counters
}

var (
	_ io.ReadWriteCloser = (*File)(nil)
	_ io.ReaderAt        = (*File)(nil)
)

func (f *File) Read(p []byte) (int, error) {
	n, err := f.file.Read(p)
	f.counters.addFileRead(int64(n))

	return n, err
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.file.ReadAt(p, off)
	f.counters.addFileRead(int64(n))

	return n, err
}

func (f *File) Write(p []byte) (int, error) {
	n, err := f.file.Write(p)
	f.counters.addFileWrite(int64(n))

	return n, err
}

func (f *File) Close() error {
	return f.file.Close()
}

func (f *File) Name() string {
	return f.file.Name()
}
