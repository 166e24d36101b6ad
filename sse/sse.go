// Package sse decodes the answering service's event stream.
//
// The stream is a sequence of newline-terminated lines. Lines starting with
// "data: " carry one JSON event payload each; every other line is ignored.
// Chunk boundaries of the underlying reader carry no meaning, so a frame
// may arrive split across any number of reads.
package sse

import (
	"bufio"
	"bytes"
	"io"

	"github.com/fwojciec/ragchat"
	ragjson "github.com/fwojciec/ragchat/json"
	"go.uber.org/zap"
)

// MaxLineSize is the largest line the decoder accepts. A longer line fails
// the stream with bufio.ErrTooLong.
const MaxLineSize = 1 << 20

var dataPrefix = []byte("data: ")

// Decoder reads events from a stream of frames.
type Decoder struct {
	scanner *bufio.Scanner
	logger  *zap.Logger
	err     error // terminal error, if any
	skipped int
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used to report skipped frames.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDecoder returns a Decoder reading frames from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	d := &Decoder{scanner: s, logger: zap.NewNop()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Next returns the next event. It returns io.EOF once the input is
// exhausted and the reader's error if reading fails. Frames whose payload
// cannot be decoded are skipped. After Next returns an error every later
// call returns the same error.
func (d *Decoder) Next() (ragchat.Event, error) {
	if d.err != nil {
		return nil, d.err
	}
	// ScanLines strips the trailing \r of CRLF lines and yields a final
	// unterminated line at end of input.
	for d.scanner.Scan() {
		line := d.scanner.Bytes()
		payload, ok := bytes.CutPrefix(line, dataPrefix)
		if !ok {
			continue
		}
		evt, err := ragjson.UnmarshalEvent(payload)
		if err != nil {
			d.skipped++
			d.logger.Debug("skipping unparseable frame",
				zap.Error(err),
				zap.Int("payload_len", len(payload)),
			)
			continue
		}
		return evt, nil
	}
	d.err = d.scanner.Err()
	if d.err == nil {
		d.err = io.EOF
	}
	return nil, d.err
}

// Skipped reports how many data frames were dropped as unparseable.
func (d *Decoder) Skipped() int {
	return d.skipped
}
