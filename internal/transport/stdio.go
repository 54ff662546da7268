package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Framing identifies the message-boundary discipline on a stream.
type Framing int

const (
	// FramingAuto defers the choice until the first message arrives.
	FramingAuto Framing = iota
	// FramingContentLength frames messages as a header block with a
	// Content-Length field, a blank line, then exactly that many bytes.
	FramingContentLength
	// FramingNewline frames each message as a single newline-terminated
	// line.
	FramingNewline
)

// ErrClosed is returned once the underlying stream reaches EOF.
var ErrClosed = errors.New("transport: connection closed")

// FramingError is fatal to the connection that produced it. The caller
// must stop reading and tear the connection down; the process carries on.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return "framing error: " + e.Reason
}

func framingErrorf(format string, args ...any) error {
	return &FramingError{Reason: fmt.Sprintf(format, args...)}
}

// Conn is a transport-level connection delivering whole protocol
// payloads. Implementations are safe for one concurrent reader and any
// number of concurrent writers.
type Conn interface {
	// ReadMessage blocks until a complete payload is available. It
	// returns ErrClosed on orderly end-of-stream and a *FramingError on
	// an unrecoverable message-boundary violation.
	ReadMessage() ([]byte, error)
	// WriteMessage emits one payload using the connection's framing.
	WriteMessage(payload []byte) error
	Close() error
}

// Stdio frames protocol messages over a byte stream, typically the
// process's stdin/stdout pipe.
type Stdio struct {
	reader   *bufio.Reader
	writer   *bufio.Writer
	closer   io.Closer
	maxBytes int

	mu      sync.Mutex // guards writer
	framing Framing
}

// NewStdio wraps a raw byte stream. maxBytes caps a single payload;
// zero means no limit. closer may be nil.
func NewStdio(r io.Reader, w io.Writer, maxBytes int, closer io.Closer) *Stdio {
	return &Stdio{
		reader:   bufio.NewReader(r),
		writer:   bufio.NewWriter(w),
		closer:   closer,
		maxBytes: maxBytes,
		framing:  FramingAuto,
	}
}

// Framing reports the committed discipline; FramingAuto until the first
// message has been read.
func (s *Stdio) Framing() Framing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.framing
}

// ReadMessage reads the next payload, detecting the framing discipline
// on the first call and enforcing it afterwards.
func (s *Stdio) ReadMessage() ([]byte, error) {
	switch s.Framing() {
	case FramingContentLength:
		return s.readContentLength()
	case FramingNewline:
		return s.readNewline()
	default:
		return s.readAuto()
	}
}

// WriteMessage emits a payload using the detected framing. Before
// detection, newline framing is used: a reply to an undetectable first
// message has nothing better to mirror.
func (s *Stdio) WriteMessage(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.framing == FramingContentLength {
		header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
		if _, err := s.writer.WriteString(header); err != nil {
			return err
		}
		if _, err := s.writer.Write(payload); err != nil {
			return err
		}
		return s.writer.Flush()
	}

	if _, err := s.writer.Write(payload); err != nil {
		return err
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return err
	}
	return s.writer.Flush()
}

// Close closes the underlying stream when one was provided.
func (s *Stdio) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *Stdio) commit(f Framing) {
	s.mu.Lock()
	s.framing = f
	s.mu.Unlock()
}

// readAuto skips leading blank lines, then commits to the discipline
// implied by the first meaningful line.
func (s *Stdio) readAuto() ([]byte, error) {
	for {
		line, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if n, ok := parseContentLength(line); ok {
			s.commit(FramingContentLength)
			return s.readContentLengthBody(n)
		}

		s.commit(FramingNewline)
		if s.maxBytes > 0 && len(line) > s.maxBytes {
			return nil, framingErrorf("line exceeds %d byte limit", s.maxBytes)
		}
		return []byte(line), nil
	}
}

func (s *Stdio) readNewline() ([]byte, error) {
	line, err := s.readLine()
	if err != nil {
		return nil, err
	}
	if _, ok := parseContentLength(line); ok {
		// Mixing disciplines after commitment is unrecoverable.
		return nil, framingErrorf("length-prefixed frame on a line-delimited connection")
	}
	if s.maxBytes > 0 && len(line) > s.maxBytes {
		return nil, framingErrorf("line exceeds %d byte limit", s.maxBytes)
	}
	return []byte(line), nil
}

func (s *Stdio) readContentLength() ([]byte, error) {
	line, err := s.readLine()
	if err != nil {
		return nil, err
	}
	n, ok := parseContentLength(line)
	if !ok {
		// Mixing disciplines after commitment is unrecoverable: the
		// stream position can no longer be trusted.
		return nil, framingErrorf("expected Content-Length header, got: %q", line)
	}
	return s.readContentLengthBody(n)
}

// readContentLengthBody consumes the remaining headers through the blank
// line, then exactly n payload bytes.
func (s *Stdio) readContentLengthBody(n int) ([]byte, error) {
	if s.maxBytes > 0 && n > s.maxBytes {
		return nil, framingErrorf("declared length %d exceeds %d byte limit", n, s.maxBytes)
	}

	for {
		header, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if header == "" {
			break
		}
	}

	payload := make([]byte, n)
	if read, err := io.ReadFull(s.reader, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, framingErrorf("stream ended %d bytes into a %d byte payload", read, n)
		}
		return nil, err
	}
	return payload, nil
}

// readLine returns the next line with the trailing CR/LF stripped.
func (s *Stdio) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", ErrClosed
			}
			// Final unterminated line; treat as complete.
			return trimCRLF(line), nil
		}
		return "", err
	}
	return trimCRLF(line), nil
}

func trimCRLF(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// parseContentLength recognizes a Content-Length header line. The header
// name is case-insensitive and surrounding whitespace is tolerated.
func parseContentLength(line string) (int, bool) {
	name, value, found := strings.Cut(strings.TrimSpace(line), ":")
	if !found {
		return 0, false
	}
	if !strings.EqualFold(strings.TrimSpace(name), "content-length") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
