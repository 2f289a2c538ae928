package wire

import (
	"bytes"
	"strings"
)

// replacement substitutes undecodable byte spans so a garbled line is
// still processed rather than dropped.
const replacement = "�"

// LineDecoder converts raw byte chunks into complete text lines. The
// transport delivers arbitrary-sized chunks, so a partial line is held
// in the buffer until its terminator arrives.
type LineDecoder struct {
	buf bytes.Buffer
}

// NewLineDecoder creates an empty decoder.
func NewLineDecoder() *LineDecoder {
	return &LineDecoder{}
}

// Feed appends a chunk and returns every complete line it closes off.
// Lines are sanitized to valid UTF-8, stripped of trailing \r and
// surrounding whitespace; lines that are empty after trimming carry no
// event and are discarded.
func (d *LineDecoder) Feed(chunk []byte) []string {
	d.buf.Write(chunk)

	var lines []string
	for {
		raw := d.buf.Bytes()
		i := bytes.IndexByte(raw, '\n')
		if i < 0 {
			return lines
		}
		line := strings.ToValidUTF8(string(raw[:i]), replacement)
		d.buf.Next(i + 1)

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
}

// Pending reports how many bytes of an unterminated line are buffered.
func (d *LineDecoder) Pending() int {
	return d.buf.Len()
}

// Reset discards any buffered partial line. Called when the transport
// drops, since the tail of a torn line must not be glued to the first
// line of the next connection.
func (d *LineDecoder) Reset() {
	d.buf.Reset()
}
