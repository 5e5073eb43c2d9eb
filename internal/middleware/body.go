package middleware

import (
	"bytes"
	"io"
	"net/http"
)

// readAndRestore consumes the request body and replaces it with a fresh
// reader over the same bytes, so later binds see the full payload.
func readAndRestore(req *http.Request) ([]byte, error) {
	buf, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(buf))
	return buf, nil
}
