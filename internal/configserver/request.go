package configserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	initialReadSize = 2048
	chunkSize       = 1024
)

type request struct {
	Method string
	Path   string
	Body   string
}

var (
	headerEnd = []byte("\r\n\r\n")

	// errNoRequest is returned when the client closes the connection without sending anything.
	errNoRequest = errors.New("no request received")
	// errIncompleteHeader is returned for a POST request whose header does not end within the initial read size.
	errIncompleteHeader = errors.New("incomplete request header")
)

// readRequest reads a single HTTP request from r. Parsing is permissive: a missing method defaults to GET and a
// missing path to "/". For POST requests, the body is read until it reaches Content-Length or the client stops sending.
func readRequest(r io.Reader) (request, error) {
	data, err := readHead(r)
	if len(data) == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return request{}, errNoRequest
		}
		return request{}, fmt.Errorf("read: %w", err)
	}

	line, _, _ := bytes.Cut(data, []byte("\r\n"))
	req := request{Method: "GET", Path: "/"}
	if fields := strings.Fields(string(line)); len(fields) > 0 {
		req.Method = strings.ToUpper(fields[0])
		if len(fields) > 1 {
			req.Path = fields[1]
		}
	}

	if req.Method != "POST" {
		return req, nil
	}

	head, body, found := bytes.Cut(data, headerEnd)
	if !found {
		if err != nil && !errors.Is(err, io.EOF) {
			return request{}, fmt.Errorf("%w: %w", errIncompleteHeader, err)
		}
		return request{}, errIncompleteHeader
	}
	body = bytes.Clone(body)
	length := contentLength(head)
	chunk := make([]byte, chunkSize)
	for len(body) < length {
		n, err := r.Read(chunk)
		body = append(body, chunk[:n]...)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return request{}, fmt.Errorf("read body: %w", err)
			}
			break
		}
	}
	req.Body = string(body)
	return req, nil
}

// readHead reads from r until it has received the end of the request header, up to initialReadSize bytes.
// Any part of the body received along with the header is included.
func readHead(r io.Reader) ([]byte, error) {
	buf := make([]byte, initialReadSize)
	var n int
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if bytes.Contains(buf[:n], headerEnd) {
			return buf[:n], nil
		}
		if err != nil {
			return buf[:n], err
		}
	}
	return buf[:n], nil
}

// contentLength returns the value of the Content-Length header. A missing or invalid header returns 0.
func contentLength(head []byte) int {
	lines := strings.Split(string(head), "\r\n")
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		length, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || length < 0 {
			return 0
		}
		return length
	}
	return 0
}
