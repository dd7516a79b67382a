// Package ipc implements the framed newline-delimited JSON reader (C1) and
// the per-child reader/writer dispatcher (C4) that sit between a script
// child's stdio pipes and the prompt engine.
package ipc

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/drake/scriptkit/protocol"
)

// MaxRecordBytes bounds a single line (§4.1 MAX_RECORD_BYTES).
const MaxRecordBytes = 10 << 20 // 10 MiB

// RecordKind tags what a FrameReader produced for one framing attempt.
type RecordKind int

const (
	KindDecoded RecordKind = iota
	KindUnknownType
	KindParseError
	KindEndOfStream
)

// Record is one outcome of FrameReader.Next: exactly one of Message/Tag/Err
// is meaningful depending on Kind, mirroring C1's Decoded/UnknownType/
// ParseError/EndOfStream sum type.
type Record struct {
	Kind    RecordKind
	Message protocol.Validator
	Tag     string
	Err     error
	Raw     []byte
}

// FrameReader reads length-bounded newline-delimited JSON records from a
// byte stream (§4.1). It never panics and never stops iterating on
// malformed input — an oversized record yields a single ParseError and
// framing resumes at the next newline, exactly as later records keep
// arriving after it (§4.1, testable property 2).
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader wraps r with the record-framing loop. The internal buffer
// starts small and grows on demand (mirrors the other_examples stdio
// provider's sc.Buffer(64KiB, 1MiB) sizing pattern) but is never allowed to
// retain more than MaxRecordBytes for a single record.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next framing outcome, or (Record{Kind:KindEndOfStream},
// false) once the stream is exhausted.
func (f *FrameReader) Next() (Record, bool) {
	for {
		line, err := f.readLine()
		if err != nil {
			if err == io.EOF && line == nil {
				return Record{Kind: KindEndOfStream}, false
			}
			if err == errRecordTooLong {
				return Record{Kind: KindParseError, Err: err, Raw: line}, true
			}
			if err == io.EOF {
				// trailing partial line with no terminator: treat as a
				// final record rather than dropping it silently.
			} else {
				return Record{Kind: KindParseError, Err: err}, true
			}
		}
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			if err == io.EOF {
				return Record{Kind: KindEndOfStream}, false
			}
			continue // blank lines are ignored (§4.1)
		}
		return decodeOne(trimmed), true
		// NOTE: if readLine returned (line, io.EOF) with a non-empty
		// trimmed line, it is decoded here; the following Next() call
		// will see (nil, io.EOF) and correctly report end of stream.
	}
}

var errRecordTooLong = errors.New("ipc: record exceeds MAX_RECORD_BYTES")

// readLine accumulates bytes up to the next '\n', enforcing MaxRecordBytes.
// If the ceiling is exceeded before a newline appears, it discards bytes up
// through the next newline (resync) and returns errRecordTooLong with the
// bytes read so far (possibly truncated) for diagnostics.
func (f *FrameReader) readLine() ([]byte, error) {
	var buf []byte
	oversized := false
	for {
		chunk, err := f.r.ReadSlice('\n')
		if len(chunk) > 0 {
			if !oversized {
				if len(buf)+len(chunk) > MaxRecordBytes {
					oversized = true
					// keep only a bounded diagnostic prefix
					room := MaxRecordBytes - len(buf)
					if room > 0 {
						buf = append(buf, chunk[:min(room, len(chunk))]...)
					}
				} else {
					buf = append(buf, chunk...)
				}
			}
		}
		if err == nil {
			// ReadSlice found '\n'; chunk includes it.
			buf = bytes.TrimSuffix(buf, []byte("\n"))
			buf = bytes.TrimSuffix(buf, []byte("\r"))
			if oversized {
				return buf, errRecordTooLong
			}
			return buf, nil
		}
		if err == bufio.ErrBufferFull {
			// ReadSlice's internal buffer is full but no newline yet;
			// keep scanning — our own MaxRecordBytes check already
			// flagged `oversized` once the true ceiling is crossed.
			continue
		}
		if err == io.EOF {
			if len(buf) == 0 {
				return nil, io.EOF
			}
			if oversized {
				return buf, errRecordTooLong
			}
			return buf, io.EOF
		}
		return buf, err
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func decodeOne(raw []byte) Record {
	env, err := protocol.PeekEnvelope(raw)
	if err != nil {
		return Record{Kind: KindParseError, Err: err, Raw: raw}
	}
	msg, err := protocol.Decode(env)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownType) {
			return Record{Kind: KindUnknownType, Tag: env.Type, Err: err, Raw: raw}
		}
		return Record{Kind: KindParseError, Tag: env.Type, Err: err, Raw: raw}
	}
	return Record{Kind: KindDecoded, Message: msg, Tag: env.Type, Raw: raw}
}
