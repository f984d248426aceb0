package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Transport frames JSON-RPC messages over a line-delimited stream,
// one JSON object per line.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex
}

// NewTransport creates a transport over the given reader/writer pair,
// typically stdin and stdout.
func NewTransport(r io.Reader, w io.Writer) *Transport {
	return &Transport{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// ReadMessage reads the next request, skipping blank lines. It returns
// io.EOF when the stream closes.
func (t *Transport) ReadMessage() (*Request, error) {
	for {
		line, err := t.reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err != nil {
				return nil, err
			}
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			return nil, fmt.Errorf("parse message: %w", err)
		}
		return &req, nil
	}
}

// WriteResponse writes one response line. Safe for use from multiple
// goroutines.
func (t *Transport) WriteResponse(resp *Response) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(t.writer, "%s\n", data)
	return err
}
