package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pageaudit/audit"
	"pageaudit/internal/limiter"
)

const cliFixtureBaseURL = "https://example.com"

const cliFixturePage = `<!DOCTYPE html>
<html lang="en">
<head>
	<title>Example Domain for the Command Line Test</title>
	<meta name="description" content="A page served from a fake transport.">
	<link rel="icon" href="/favicon.ico">
</head>
<body>
	<h1>Example Domain</h1>
	<p>This page exists so the command line test has something to audit.</p>
	<a href="/docs">Documentation</a>
</body>
</html>`

func TestCLI_PrintsJSONOnly(t *testing.T) {
	client := newFixtureClient(t)
	clock := fixedClock{now: fixtureTime()}
	args := []string{
		"pageaudit",
		"--retries=0",
		"--timeout=1s",
		cliFixtureBaseURL,
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	err := Run(args, &stdout, &stderr, client, clock)
	require.NoError(t, err)

	if stderr.Len() != 0 {
		t.Fatalf("expected empty stderr, got %q", stderr.String())
	}

	output := stdout.Bytes()
	if !bytes.HasSuffix(output, []byte("\n")) {
		t.Fatalf("expected trailing newline")
	}
	trimmed := bytes.TrimSuffix(output, []byte("\n"))
	if !json.Valid(trimmed) {
		t.Fatalf("stdout is not valid JSON")
	}

	expected := buildExpectedCLIReport(t, newFixtureClient(t), clock)
	if !bytes.Equal(output, expected) {
		t.Fatalf("cli output does not match library output")
	}
}

func TestCLI_ReturnsErrorWhenPageUnreachable(t *testing.T) {
	t.Parallel()

	client := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("dial error")
		}),
	}
	clock := fixedClock{now: fixtureTime()}
	args := []string{
		"pageaudit",
		"--retries=0",
		"--timeout=1s",
		cliFixtureBaseURL,
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	err := Run(args, &stdout, &stderr, client, clock)
	require.Error(t, err)
	require.Empty(t, stdout.Bytes())
}

func TestCLI_MissingURLShowsHelp(t *testing.T) {
	t.Parallel()

	clock := fixedClock{now: fixtureTime()}
	args := []string{"pageaudit"}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	err := Run(args, &stdout, &stderr, &http.Client{}, clock)
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "USAGE")
}

func buildExpectedCLIReport(t *testing.T, client *http.Client, clock limiter.Timer) []byte {
	t.Helper()

	opts := audit.Options{
		URL:        cliFixtureBaseURL,
		IndentJSON: true,
		Retries:    0,
		Timeout:    time.Second,
		HTTPClient: client,
		Clock:      clock,
	}

	data, err := audit.Analyze(context.Background(), opts)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	return data
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func (c fixedClock) Sleep(ctx context.Context, duration time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func fixtureTime() time.Time {
	return time.Date(2026, time.June, 1, 12, 34, 56, 0, time.UTC)
}

func newFixtureClient(t *testing.T) *http.Client {
	t.Helper()

	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			host := req.URL.Hostname()

			if !strings.EqualFold(host, "example.com") && !strings.EqualFold(host, "www.example.com") {
				return nil, fmt.Errorf("unexpected host %q", host)
			}

			header := http.Header{}
			header.Set("Content-Type", "text/html")
			header.Set("Content-Encoding", "gzip")

			return responseWithBody(http.StatusOK, []byte(cliFixturePage), header), nil
		}),
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func responseWithBody(status int, body []byte, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}
