package mcp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const maxMessageSize = 10 * 1024 * 1024 // 10MB

// framing is the wire format of one message.
type framing int

const (
	// framingHeader is Content-Length header framing.
	framingHeader framing = iota
	// framingLine is newline-delimited JSON.
	framingLine
)

// frameError reports a malformed message that was consumed from the
// stream. Reading can continue with the next message.
type frameError struct {
	framing framing
	reason  string
}

func (e *frameError) Error() string {
	return e.reason
}

// headerLine matches an RFC 822 style "Name: value" header line.
func headerLine(line string) bool {
	name, _, ok := strings.Cut(line, ":")
	if !ok || name == "" {
		return false
	}
	for _, c := range name {
		if !(c == '-' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}

// readMessage reads one message and reports its framing. Blank lines
// between messages are skipped. It returns io.EOF when the stream ends
// between messages, and a *frameError for a malformed message after
// which the next message can still be read.
func readMessage(r *bufio.Reader) ([]byte, framing, error) {
	if err := skipBlank(r); err != nil {
		return nil, framingHeader, err
	}

	first, err := r.Peek(1)
	if err != nil {
		return nil, framingHeader, err
	}
	if first[0] == '{' || first[0] == '[' {
		line, err := readLine(r)
		return line, framingLine, err
	}
	body, err := readFramed(r)
	return body, framingHeader, err
}

func skipBlank(r *bufio.Reader) error {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return r.UnreadByte()
		}
	}
}

func readLine(r *bufio.Reader) ([]byte, error) {
	var buf bytes.Buffer
	oversized := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !oversized {
			buf.Write(chunk)
			if buf.Len() > maxMessageSize {
				oversized = true
				buf.Reset()
			}
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && (buf.Len() > 0 || oversized) {
			break
		}
		return nil, err
	}
	if oversized {
		return nil, &frameError{framing: framingLine, reason: fmt.Sprintf("message exceeds limit %d", maxMessageSize)}
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

// readFramed reads a header block and its body. A first line that is not a
// header is consumed as one malformed line. A JSON line where a header is
// expected ends the block without being consumed.
func readFramed(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	invalid := ""

	for first := true; ; first = false {
		if !first {
			if next, err := r.Peek(1); err == nil && (next[0] == '{' || next[0] == '[') {
				return nil, &frameError{framing: framingHeader, reason: "header block is not terminated by a blank line"}
			}
		}

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if !headerLine(line) {
			if first {
				return nil, &frameError{framing: framingLine, reason: "message is neither JSON nor a header block"}
			}
			return nil, &frameError{framing: framingHeader, reason: fmt.Sprintf("malformed header line %q", line)}
		}

		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "content-length:") {
			val := strings.TrimSpace(line[len("content-length:"):])
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				invalid = fmt.Sprintf("invalid Content-Length: %q", val)
				continue
			}
			contentLength = n
		}
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
	}

	if invalid != "" {
		return nil, &frameError{framing: framingHeader, reason: invalid}
	}
	if contentLength < 0 {
		return nil, &frameError{framing: framingHeader, reason: "missing Content-Length header"}
	}
	if contentLength > maxMessageSize {
		if _, err := io.CopyN(io.Discard, r, int64(contentLength)); err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, &frameError{framing: framingHeader, reason: fmt.Sprintf("content length %d exceeds limit %d", contentLength, maxMessageSize)}
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return body, nil
}

// writeMessage writes payload with the given framing.
func writeMessage(w io.Writer, payload []byte, f framing) error {
	if f == framingLine {
		if _, err := w.Write(payload); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
