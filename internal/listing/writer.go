package listing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidField is wrapped by write errors for fields that are empty or
// contain whitespace. Nothing is written for such a record.
var ErrInvalidField = errors.New("field is empty or contains whitespace")

type record interface {
	fields() []string
}

// Writer appends records to a listing, one whitespace-separated line each.
// Fields must not contain whitespace. Call Flush when done.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (lw *Writer) write(rec record) error {
	fields := rec.fields()
	for _, f := range fields {
		if f == "" || strings.ContainsAny(f, " \t\r\n") {
			return fmt.Errorf("cannot write field %q: %w", f, ErrInvalidField)
		}
	}
	if _, err := lw.w.WriteString(strings.Join(fields, " ")); err != nil {
		return err
	}
	lw.count++
	return lw.w.WriteByte('\n')
}

// WriteFqn writes one FQN record
func (lw *Writer) WriteFqn(rec FqnRecord) error { return lw.write(rec) }

// WriteHash writes one hash record
func (lw *Writer) WriteHash(rec HashRecord) error { return lw.write(rec) }

// WriteFingerprint writes one fingerprint record
func (lw *Writer) WriteFingerprint(rec FingerprintRecord) error { return lw.write(rec) }

// WriteDir writes one directory record
func (lw *Writer) WriteDir(rec DirRecord) error { return lw.write(rec) }

// WriteDirMatch writes one matched directory file record
func (lw *Writer) WriteDirMatch(rec DirMatchRecord) error { return lw.write(rec) }

// WriteJar writes one jar record
func (lw *Writer) WriteJar(rec JarRecord) error { return lw.write(rec) }

// Count returns the number of records written
func (lw *Writer) Count() int {
	return lw.count
}

// Flush writes any buffered data to the underlying writer
func (lw *Writer) Flush() error {
	return lw.w.Flush()
}
