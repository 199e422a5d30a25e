package genai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Stream is one streamGenerateContent connection. It is finite and not
// restartable; fragments come back in arrival order until the provider
// closes the stream.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// StreamGenerateContent opens an SSE generation stream. Callers must Close
// the stream on every exit path.
func (c *Client) StreamGenerateContent(ctx context.Context, model string, request *GenerateContentRequest) (*Stream, error) {
	endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, model)

	res, err := c.post(ctx, endpoint, request)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, &APIError{StatusCode: res.StatusCode, Body: truncate(string(resBody), 2048)}
	}

	scanner := bufio.NewScanner(res.Body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	return &Stream{body: res.Body, scanner: scanner}, nil
}

// Recv returns the next non-empty text fragment, or io.EOF when the provider
// closes the stream.
func (s *Stream) Recv() (string, error) {
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if !bytes.HasPrefix(line, []byte("data: ")) {
			continue
		}

		var chunk GenerateContentResponse
		if err := json.Unmarshal(line[6:], &chunk); err != nil {
			return "", err
		}

		if text := chunk.Text(); text != "" {
			return text, nil
		}
	}

	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *Stream) Close() error {
	return s.body.Close()
}
