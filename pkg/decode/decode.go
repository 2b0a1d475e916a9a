// Package decode turns uploaded statement files into plain text.
package decode

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

type Format string

const (
	PDF Format = "pdf"
	XLS Format = "xls"
	TXT Format = "txt"
	// CSV is detected but has no decoder: a CSV upload is a previously
	// exported draft file and is read back as records, not text.
	CSV Format = "csv"
)

var (
	// ErrDecode wraps every failure of a backend to read a document.
	ErrDecode = errors.New("document could not be decoded")
	// ErrUnsupported is returned for file types with no registered decoder.
	ErrUnsupported = errors.New("unsupported file type")
)

// Decoder extracts the text of one document format.
type Decoder interface {
	Format() Format
	Decode(data []byte) (string, error)
}

// Detect maps a file name to a format by extension.
func Detect(filename string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch Format(ext) {
	case PDF, XLS, TXT, CSV:
		return Format(ext), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, filename)
}

// Registry holds one decoder per format. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	decoders map[Format]Decoder
}

func NewRegistry(decoders ...Decoder) *Registry {
	r := &Registry{decoders: make(map[Format]Decoder)}
	for _, d := range decoders {
		r.Register(d)
	}
	return r
}

// Register installs d, replacing any decoder for the same format.
func (r *Registry) Register(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[d.Format()] = d
}

func (r *Registry) Get(f Format) (Decoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, f)
	}
	return d, nil
}

// Formats lists the registered formats, sorted.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.decoders))
	for f := range r.decoders {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// DecodeFile picks a decoder from the file name and runs it.
func (r *Registry) DecodeFile(data []byte, filename string) (string, error) {
	f, err := Detect(filename)
	if err != nil {
		return "", err
	}
	d, err := r.Get(f)
	if err != nil {
		return "", err
	}
	return d.Decode(data)
}

// Default returns the process-wide registry with every built-in decoder.
// It is built on first use and shared afterwards.
var Default = sync.OnceValue(func() *Registry {
	return NewRegistry(PDFDecoder{}, XLSDecoder{}, TextDecoder{})
})

// guard turns a panic inside a third-party backend into ErrDecode.
func guard(f Format, fn func() (string, error)) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %s backend panicked: %v", ErrDecode, f, r)
		}
	}()
	text, err = fn()
	if err != nil && !errors.Is(err, ErrDecode) {
		err = fmt.Errorf("%w: %s: %w", ErrDecode, f, err)
	}
	return text, err
}
