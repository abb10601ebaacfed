// Package stream decodes server-sent-event style chat completion
// streams into incremental text fragments.
package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// ErrStopped is returned by Next after the terminal sentinel has been
// seen; remaining bytes in the source are never read.
var ErrStopped = errors.New("stream: decoder stopped")

// chunk mirrors the wire shape of one streamed completion event.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decoder incrementally reads "data: {json}" framed events from an
// arbitrary-chunked byte source and yields the content deltas in
// arrival order. It is not safe for concurrent use and cannot be
// restarted once exhausted.
type Decoder struct {
	r   io.Reader
	buf []byte // unconsumed bytes; an explicit consumed-offset cursor, no string rebuilding

	// held is a complete line whose JSON payload failed to parse, kept
	// for one retry once more bytes arrive. heldLen records the buffer
	// size at the time of the failure so a retry only happens after
	// growth.
	held    []byte
	heldLen int

	eof  bool
	done bool

	readBuf []byte
}

// NewDecoder wraps a byte source, typically an HTTP response body.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:       r,
		readBuf: make([]byte, 4096),
	}
}

// Next returns the next non-empty content fragment. It returns io.EOF
// when the source is exhausted and ErrStopped after the [DONE]
// sentinel. Fragments are never duplicated and arrive in order.
func (d *Decoder) Next() (string, error) {
	if d.done {
		return "", ErrStopped
	}

	for {
		if frag, ok, err := d.drainBuffered(); err != nil {
			return "", err
		} else if ok {
			return frag, nil
		}

		if d.eof {
			return d.finalPass()
		}

		if err := d.fill(); err != nil {
			return "", err
		}
	}
}

// drainBuffered consumes as many complete lines as possible.
func (d *Decoder) drainBuffered() (string, bool, error) {
	// A held line is retried only after the buffer has grown, and is
	// given up on once a later complete line proves it final.
	if d.held != nil && len(d.buf) > d.heldLen {
		frag, ok := d.parseData(d.held)
		if ok {
			d.held = nil
			if frag != "" {
				return frag, true, nil
			}
		} else if bytes.IndexByte(d.buf, '\n') >= 0 {
			// Another framed line arrived after it; the held line can
			// no longer change, so it is silently dropped.
			d.held = nil
		} else {
			d.heldLen = len(d.buf)
		}
	}
	if d.held != nil && d.eof {
		// final retry happens in finalPass
		return "", false, nil
	}

	for {
		nl := bytes.IndexByte(d.buf, '\n')
		if nl < 0 {
			return "", false, nil
		}
		line := d.buf[:nl]
		d.buf = d.buf[nl+1:]

		frag, stop, retain := d.processLine(line)
		if stop {
			d.done = true
			return "", false, ErrStopped
		}
		if retain {
			d.held = append([]byte(nil), line...)
			d.heldLen = len(d.buf)
			continue
		}
		if frag != "" {
			return frag, true, nil
		}
	}
}

// processLine classifies one complete line. retain is set when the
// payload looks like JSON that arrived truncated and should be retried.
func (d *Decoder) processLine(line []byte) (frag string, stop, retain bool) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 || line[0] == ':' {
		return "", false, false
	}
	if !bytes.HasPrefix(line, []byte(dataPrefix)) {
		return "", false, false
	}

	payload := bytes.TrimSpace(line[len(dataPrefix):])
	if string(payload) == doneMarker {
		return "", true, false
	}

	if frag, ok := d.parseData(line); ok {
		return frag, false, false
	}
	return "", false, true
}

// parseData extracts choices[0].delta.content from a data line.
func (d *Decoder) parseData(line []byte) (string, bool) {
	payload := bytes.TrimSpace(line[len(dataPrefix):])
	var c chunk
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", false
	}
	if len(c.Choices) == 0 {
		return "", true
	}
	return c.Choices[0].Delta.Content, true
}

// fill reads one more chunk from the source.
func (d *Decoder) fill() error {
	n, err := d.r.Read(d.readBuf)
	if n > 0 {
		d.buf = append(d.buf, d.readBuf[:n]...)
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.eof = true
			return nil
		}
		return err
	}
	return nil
}

// finalPass gives residual buffered content one best-effort parse after
// the source ends without a sentinel.
func (d *Decoder) finalPass() (string, error) {
	if d.held != nil {
		held := d.held
		d.held = nil
		if frag, ok := d.parseData(held); ok && frag != "" {
			return frag, nil
		}
	}

	for len(d.buf) > 0 {
		line := d.buf
		if nl := bytes.IndexByte(d.buf, '\n'); nl >= 0 {
			line = d.buf[:nl]
			d.buf = d.buf[nl+1:]
		} else {
			d.buf = nil
		}

		frag, stop, _ := d.processLine(line)
		if stop {
			d.done = true
			return "", ErrStopped
		}
		if frag != "" {
			return frag, nil
		}
	}

	d.done = true
	return "", io.EOF
}
