package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadMessageSkipsBlankLines(t *testing.T) {
	input := "\n   \n{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"ping\"}\n"
	tr := NewTransport(strings.NewReader(input), io.Discard)

	req, err := tr.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != "ping" {
		t.Fatalf("expected method ping, got %q", req.Method)
	}
	if req.IsNotification() {
		t.Fatal("request with id reported as notification")
	}
}

func TestReadMessageEOF(t *testing.T) {
	tr := NewTransport(strings.NewReader(""), io.Discard)

	_, err := tr.ReadMessage()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestReadMessageUnterminatedFinalLine(t *testing.T) {
	tr := NewTransport(strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`), io.Discard)

	req, err := tr.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.IsNotification() {
		t.Fatal("request without id not reported as notification")
	}

	if _, err := tr.ReadMessage(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF after final line, got %v", err)
	}
}

func TestReadMessageParseError(t *testing.T) {
	tr := NewTransport(strings.NewReader("{not json}\n{\"jsonrpc\":\"2.0\",\"id\":2,\"method\":\"ping\"}\n"), io.Discard)

	_, err := tr.ReadMessage()
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("expected parse error, got %v", err)
	}

	req, err := tr.ReadMessage()
	if err != nil {
		t.Fatalf("expected next message after bad line, got %v", err)
	}
	if req.Method != "ping" {
		t.Fatalf("expected method ping, got %q", req.Method)
	}
}

func TestWriteResponseWritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTransport(strings.NewReader(""), &buf)

	resp, err := NewResponse(json.RawMessage("7"), map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.WriteResponse(resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newline, got %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", out)
	}

	var decoded Response
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if decoded.JSONRPC != "2.0" {
		t.Fatalf("expected jsonrpc 2.0, got %q", decoded.JSONRPC)
	}
	if string(decoded.ID) != "7" {
		t.Fatalf("expected id 7, got %s", decoded.ID)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(json.RawMessage(`"abc"`), MethodNotFound, "no such method")
	if resp.Error == nil {
		t.Fatal("expected error object")
	}
	if resp.Error.Code != MethodNotFound {
		t.Fatalf("expected code %d, got %d", MethodNotFound, resp.Error.Code)
	}
	if resp.Result != nil {
		t.Fatal("error response must not carry a result")
	}
}
