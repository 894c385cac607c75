// Package trace reads request traces and produces synthetic ones.
//
// A trace row is "time,receiver,object": object was requested by receiver
// after time units. Only the object matters for replay.
package trace

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
	"github.com/streamcache/dsca-go/internal/hasher"
)

type constError string

func (e constError) Error() string { return string(e) }

// ErrMalformed is wrapped, with file and line, by every trace parse error.
const ErrMalformed = constError("malformed trace row")

type Request struct {
	Time     float64
	Receiver string
	Object   uint64
}

type Trace struct {
	Name string
	// Digest identifies the trace content in experiment results.
	Digest   uint64
	Requests []Request
}

func (t *Trace) Len() int { return len(t.Requests) }

// Keys returns the requested objects in order.
func (t *Trace) Keys() []uint64 {
	keys := make([]uint64, len(t.Requests))
	for i, r := range t.Requests {
		keys[i] = r.Object
	}
	return keys
}

// FromKeys wraps a key sequence as a trace with one time unit per request.
func FromKeys(name string, keys []uint64) *Trace {
	t := &Trace{Name: name, Requests: make([]Request, len(keys))}
	d := xxhash.New()
	var buf [8]byte
	for i, k := range keys {
		t.Requests[i] = Request{Time: float64(i), Receiver: "0", Object: k}
		for j := range buf {
			buf[j] = byte(k >> (8 * j))
		}
		d.Write(buf[:])
	}
	t.Digest = d.Sum64()
	return t
}

// ParseObject keeps numeric object ids and hashes every other id.
func ParseObject(s string) uint64 {
	if id, err := strconv.ParseUint(s, 10, 64); err == nil {
		return id
	}
	return hasher.String(s)
}

// Load reads a trace file, files ending in .sz are snappy framed.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".sz") {
		r = snappy.NewReader(r)
	}
	return Read(r, filepath.Base(path))
}

// Read parses a CSV trace. A first row whose time is not a number is taken
// as header, every later malformed row fails with the row's line number.
func Read(r io.Reader, name string) (*Trace, error) {
	d := xxhash.New()
	cr := csv.NewReader(io.TeeReader(r, d))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	t := &Trace{Name: name}
	for row := 0; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("trace: %s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)
		if len(record) < 3 {
			return nil, fmt.Errorf("trace: %s:%d: %w: want 3 fields, got %d", name, line, ErrMalformed, len(record))
		}
		ts, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			if row == 0 {
				continue
			}
			return nil, fmt.Errorf("trace: %s:%d: %w: time %q", name, line, ErrMalformed, record[0])
		}
		object := strings.TrimSpace(record[2])
		if object == "" {
			return nil, fmt.Errorf("trace: %s:%d: %w: empty object", name, line, ErrMalformed)
		}
		t.Requests = append(t.Requests, Request{
			Time:     ts,
			Receiver: strings.TrimSpace(record[1]),
			Object:   ParseObject(object),
		})
	}
	t.Digest = d.Sum64()
	return t, nil
}

// Write stores t as CSV without header.
func Write(w io.Writer, t *Trace) error {
	cw := csv.NewWriter(w)
	for _, r := range t.Requests {
		err := cw.Write([]string{
			strconv.FormatFloat(r.Time, 'f', -1, 64),
			r.Receiver,
			strconv.FormatUint(r.Object, 10),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
