package rowproject

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/segmentio/encoding/json"
)

const encoderBufferSize = 32 * 1024

var errEncoderClosed = errors.New("array encoder is closed")

// valueFormat holds the separators used when encoding JSON values.
type valueFormat struct {
	itemSeparator string
	keySeparator  string
	ascii         bool
}

var (
	// Same separators as the defaults of Python's json module.
	defaultFormat = valueFormat{itemSeparator: ", ", keySeparator: ": ", ascii: true}
	compactFormat = valueFormat{itemSeparator: ",", keySeparator: ":"}
)

// ArrayEncoder writes a sequence of values as a single JSON array.
//
// The opening bracket is written with the first value, or by Close if no
// values were encoded. Output is buffered; nothing is guaranteed to reach the
// underlying writer before Close returns.
type ArrayEncoder struct {
	writer io.Writer
	buffer []byte
	format valueFormat
	count  int64
	err    error
}

// NewArrayEncoder returns an encoder writing to w with non-ASCII characters
// escaped.
func NewArrayEncoder(w io.Writer) *ArrayEncoder {
	return &ArrayEncoder{
		writer: w,
		buffer: make([]byte, 0, encoderBufferSize),
		format: defaultFormat,
	}
}

// SetEscapeASCII controls whether non-ASCII characters are written as \u
// escape sequences.
func (e *ArrayEncoder) SetEscapeASCII(on bool) { e.format.ascii = on }

// Count returns the number of values encoded so far.
func (e *ArrayEncoder) Count() int64 { return e.count }

// Encode appends v to the array.
func (e *ArrayEncoder) Encode(v interface{}) error {
	if e.err != nil {
		return e.err
	}

	if e.count == 0 {
		e.buffer = append(e.buffer, '[')
	} else {
		e.buffer = append(e.buffer, e.format.itemSeparator...)
	}

	b, err := e.format.appendValue(e.buffer, v)
	if err != nil {
		e.err = err
		return err
	}
	e.buffer = b
	e.count++

	if len(e.buffer) >= encoderBufferSize {
		return e.flush()
	}
	return nil
}

// Close terminates the array and flushes the buffered output. It does not
// close the underlying writer.
func (e *ArrayEncoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if e.count == 0 {
		e.buffer = append(e.buffer, '[')
	}
	e.buffer = append(e.buffer, ']')
	if err := e.flush(); err != nil {
		return err
	}
	e.err = errEncoderClosed
	return nil
}

func (e *ArrayEncoder) flush() error {
	if _, err := e.writer.Write(e.buffer); err != nil {
		e.err = err
		return err
	}
	e.buffer = e.buffer[:0]
	return nil
}

func (f *valueFormat) appendValue(b []byte, v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return append(b, "null"...), nil

	case Object:
		b = append(b, '{')
		for i, field := range x {
			if i != 0 {
				b = append(b, f.itemSeparator...)
			}
			b = f.appendString(b, field.Name)
			b = append(b, f.keySeparator...)
			var err error
			if b, err = f.appendValue(b, field.Value); err != nil {
				return b, err
			}
		}
		return append(b, '}'), nil

	case []interface{}:
		b = append(b, '[')
		for i, item := range x {
			if i != 0 {
				b = append(b, f.itemSeparator...)
			}
			var err error
			if b, err = f.appendValue(b, item); err != nil {
				return b, err
			}
		}
		return append(b, ']'), nil

	case string:
		return f.appendString(b, x), nil

	case json.RawMessage:
		if len(x) == 0 {
			return append(b, "null"...), nil
		}
		if f.ascii {
			return appendASCII(b, x), nil
		}
		return append(b, x...), nil

	case float32:
		if err := checkFloat(float64(x)); err != nil {
			return b, err
		}
	case float64:
		if err := checkFloat(x); err != nil {
			return b, err
		}
	}

	return json.Append(b, v, 0)
}

func (f *valueFormat) appendString(b []byte, s string) []byte {
	if !f.ascii {
		b, _ = json.Append(b, s, 0)
		return b
	}
	// Strings always encode successfully, invalid UTF-8 is replaced with
	// U+FFFD by the json package.
	tmp, _ := json.Append(nil, s, 0)
	return appendASCII(b, tmp)
}

func checkFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("json: unsupported float value: %v", f)
	}
	return nil
}

const hex = "0123456789abcdef"

// appendASCII appends the JSON text src to b, replacing every non-ASCII
// character with its \u escape sequence. Characters outside the basic
// multilingual plane are written as UTF-16 surrogate pairs.
func appendASCII(b, src []byte) []byte {
	for i := 0; i < len(src); {
		c := src[i]
		if c < utf8.RuneSelf {
			b = append(b, c)
			i++
			continue
		}
		r, size := utf8.DecodeRune(src[i:])
		i += size
		if r > 0xFFFF {
			r1, r2 := utf16.EncodeRune(r)
			b = appendEscape(b, r1)
			b = appendEscape(b, r2)
		} else {
			b = appendEscape(b, r)
		}
	}
	return b
}

func appendEscape(b []byte, r rune) []byte {
	return append(b, '\\', 'u',
		hex[(r>>12)&0xF],
		hex[(r>>8)&0xF],
		hex[(r>>4)&0xF],
		hex[r&0xF],
	)
}
