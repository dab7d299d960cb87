package main

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.elastic.co/apm/module/apmhttp"
)

var (
	globalTimeout int
)

// sendRequest sends an outbound request with the global timeout unless one is
// passed. The client is traced so outbound calls show up as APM spans.
func sendRequest(ctx context.Context, method, url string, queryParams url.Values, headers map[string]string, body io.Reader, timeout ...int) (*http.Response, error) {
	t := globalTimeout
	if len(timeout) > 0 {
		t = timeout[0]
	}

	client := apmhttp.WrapClient(&http.Client{
		Timeout: time.Duration(t) * time.Second,
	})

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	// Set query parameters if provided
	if queryParams != nil {
		req.URL.RawQuery = queryParams.Encode()
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return client.Do(req)
}

// readBody reads and closes the response body, decompressing gzip if needed.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("error creating gzip reader: %s", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	respBody, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %s", err)
	}
	return respBody, nil
}
