package stream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkedReader delivers its parts one per Read call, regardless of
// the destination buffer size, to simulate arbitrary network chunking.
type chunkedReader struct {
	parts []string
	pos   int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.parts) {
		return 0, io.EOF
	}
	n := copy(p, r.parts[r.pos])
	r.pos++
	return n, nil
}

func collect(t *testing.T, d *Decoder) []string {
	t.Helper()
	var out []string
	for {
		frag, err := d.Next()
		if errors.Is(err, io.EOF) || errors.Is(err, ErrStopped) {
			return out
		}
		require.NoError(t, err)
		out = append(out, frag)
	}
}

func event(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n"
}

func TestDecoder_BasicStream(t *testing.T) {
	input := event("Hello") + event(" world") + "data: [DONE]\n"
	d := NewDecoder(strings.NewReader(input))

	frags := collect(t, d)
	assert.Equal(t, []string{"Hello", " world"}, frags)
}

func TestDecoder_SentinelTermination(t *testing.T) {
	// Content after [DONE] must never be emitted.
	input := event("a") + event("b") + "data: [DONE]\n" + event("c")
	d := NewDecoder(strings.NewReader(input))

	frags := collect(t, d)
	assert.Equal(t, "ab", strings.Join(frags, ""))
}

func TestDecoder_IgnoresNonDataLines(t *testing.T) {
	input := ": keep-alive comment\n" +
		"\n" +
		"event: message\n" +
		event("x") +
		"data: [DONE]\n"
	d := NewDecoder(strings.NewReader(input))

	frags := collect(t, d)
	assert.Equal(t, []string{"x"}, frags)
}

func TestDecoder_EmptyDeltaSkipped(t *testing.T) {
	input := `data: {"choices":[{"delta":{}}]}` + "\n" +
		`data: {"choices":[]}` + "\n" +
		event("ok") +
		"data: [DONE]\n"
	d := NewDecoder(strings.NewReader(input))

	frags := collect(t, d)
	assert.Equal(t, []string{"ok"}, frags)
}

func TestDecoder_ChunkBoundaryResilience(t *testing.T) {
	full := event("Hello") + event(" there") + event("!") + "data: [DONE]\n"

	want := []string{"Hello", " there", "!"}

	// Splitting the byte stream at every possible offset must yield the
	// same fragment sequence as delivering it unsplit.
	for cut := 1; cut < len(full)-1; cut++ {
		r := &chunkedReader{parts: []string{full[:cut], full[cut:]}}
		d := NewDecoder(r)
		assert.Equal(t, want, collect(t, d), "split at offset %d", cut)
	}
}

func TestDecoder_ManySmallChunks(t *testing.T) {
	full := event("str") + event("eam") + "data: [DONE]\n"
	var parts []string
	for i := 0; i < len(full); i += 3 {
		end := i + 3
		if end > len(full) {
			end = len(full)
		}
		parts = append(parts, full[i:end])
	}

	d := NewDecoder(&chunkedReader{parts: parts})
	assert.Equal(t, "stream", strings.Join(collect(t, d), ""))
}

func TestDecoder_TruncatedTailParsedAtEOF(t *testing.T) {
	// Stream ends without [DONE] and without a trailing newline; the
	// residual content gets one best-effort pass.
	input := event("partial") + `data: {"choices":[{"delta":{"content":"tail"}}]}`
	d := NewDecoder(strings.NewReader(input))

	frags := collect(t, d)
	assert.Equal(t, []string{"partial", "tail"}, frags)
}

func TestDecoder_MalformedLineDropped(t *testing.T) {
	input := "data: {not json\n" + event("good") + "data: [DONE]\n"
	d := NewDecoder(strings.NewReader(input))

	frags := collect(t, d)
	assert.Equal(t, []string{"good"}, frags)
}

func TestDecoder_MalformedTailDroppedAtEOF(t *testing.T) {
	input := event("good") + "data: {truncated"
	d := NewDecoder(strings.NewReader(input))

	frags := collect(t, d)
	assert.Equal(t, []string{"good"}, frags)
}

func TestDecoder_CRLFLines(t *testing.T) {
	input := "data: {\"choices\":[{\"delta\":{\"content\":\"crlf\"}}]}\r\n" +
		"data: [DONE]\r\n"
	d := NewDecoder(strings.NewReader(input))

	frags := collect(t, d)
	assert.Equal(t, []string{"crlf"}, frags)
}

func TestDecoder_StoppedAfterSentinel(t *testing.T) {
	d := NewDecoder(strings.NewReader("data: [DONE]\n"))

	_, err := d.Next()
	require.ErrorIs(t, err, ErrStopped)

	_, err = d.Next()
	assert.ErrorIs(t, err, ErrStopped)
}

func TestDecoder_EmptySource(t *testing.T) {
	d := NewDecoder(strings.NewReader(""))

	_, err := d.Next()
	assert.ErrorIs(t, err, io.EOF)
}
