package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Unix newlines, stop on empty line",
			input:    "a.png\nb.png\n\n",
			expected: []string{"a.png", "b.png"},
		},
		{
			name:     "Windows CRLF, stop on empty line",
			input:    "a.png\r\nb.png\r\n\r\n",
			expected: []string{"a.png", "b.png"},
		},
		{
			name:     "Immediate blank line gives nil slice",
			input:    "\n",
			expected: nil,
		},
		{
			name:     "EOF without trailing blank line",
			input:    "a.png\nb.png",
			expected: []string{"a.png", "b.png"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := bufio.NewReader(strings.NewReader(tc.input))
			var out bytes.Buffer
			got, err := GetMultiline(in, "Enter references", &out)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestGetPIN_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPIN(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetPIN_TrimsWhitespace(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte(" 1723 "), nil
	}
	var out bytes.Buffer
	pin, err := GetPIN(&out)
	require.NoError(t, err)
	require.Equal(t, "1723", pin)
}
