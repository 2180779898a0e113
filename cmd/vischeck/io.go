/*
NAME
  io.go

DESCRIPTION
  io.go implements the three raw-image wire formats the reference CLI
  accepts: binary, two-hex-digit-per-byte, and one hex triple per pixel
  per line.

AUTHOR
  AusOcean <engineering@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type format int

const (
	formatBinary format = iota
	formatHex
	formatTable
)

func inputFormat(bin, hex, table bool) (format, error) {
	n := 0
	for _, v := range []bool{bin, hex, table} {
		if v {
			n++
		}
	}
	if n > 1 {
		return 0, fmt.Errorf("only one of -b, -x, -c may be given")
	}
	switch {
	case hex:
		return formatHex, nil
	case table:
		return formatTable, nil
	default:
		return formatBinary, nil
	}
}

func parseDims(s string) (w, h int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected W,H, got %q", s)
	}
	w, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	h, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("dimensions must be positive, got %dx%d", w, h)
	}
	return w, h, nil
}

// readImage reads w*h*3 bytes of interleaved RGB data from r in the
// given format.
func readImage(r io.Reader, w, h int, f format) ([]byte, error) {
	n := w * h * 3
	switch f {
	case formatBinary:
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	case formatHex:
		buf := make([]byte, n)
		br := bufio.NewReader(r)
		for i := 0; i < n; i++ {
			v, err := readHexByte(br)
			if err != nil {
				return nil, err
			}
			buf[i] = v
		}
		return buf, nil
	case formatTable:
		buf := make([]byte, n)
		sc := bufio.NewScanner(r)
		for i := 0; i < w*h; i++ {
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("unexpected end of input at pixel %d", i)
			}
			fields := strings.Fields(sc.Text())
			if len(fields) != 3 {
				return nil, fmt.Errorf("expected 3 hex values per line, got %d", len(fields))
			}
			for c, field := range fields {
				v, err := strconv.ParseUint(field, 16, 8)
				if err != nil {
					return nil, err
				}
				buf[3*i+c] = byte(v)
			}
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("unknown format %d", f)
	}
}

func readHexByte(r *bufio.Reader) (byte, error) {
	var b [2]byte
	for i := range b {
		c, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		b[i] = c
	}
	v, err := strconv.ParseUint(string(b[:]), 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

// writeImage writes w*h*3 bytes of interleaved RGB data to w in the
// given format.
func writeImage(w io.Writer, data []byte, width, height int, f format) error {
	switch f {
	case formatBinary:
		_, err := w.Write(data)
		return err
	case formatHex:
		bw := bufio.NewWriter(w)
		for _, b := range data {
			if _, err := fmt.Fprintf(bw, "%.2x", b); err != nil {
				return err
			}
		}
		return bw.Flush()
	case formatTable:
		bw := bufio.NewWriter(w)
		for i := 0; i < width*height; i++ {
			if _, err := fmt.Fprintf(bw, "%.2x %.2x %.2x\n", data[3*i], data[3*i+1], data[3*i+2]); err != nil {
				return err
			}
		}
		return bw.Flush()
	default:
		return fmt.Errorf("unknown format %d", f)
	}
}

// parseKernelFlags parses the -W/-D/-C flag values (each a
// comma-separated float list) into fixed arrays. When all three strings
// are empty it reports hasKernel=false so the caller can fall back to its
// own defaults; otherwise an empty -W or -D leaves that array all zero
// and an empty -C gives scales of 1,1,1.
func parseKernelFlags(weights, sds, scale string) (w, d [9]float64, c [3]float64, hasKernel bool, err error) {
	if weights == "" && sds == "" && scale == "" {
		return w, d, [3]float64{1, 1, 1}, false, nil
	}

	if weights != "" {
		if w, err = parseFloats9(weights); err != nil {
			return w, d, c, false, fmt.Errorf("-W: %w", err)
		}
	}
	if sds != "" {
		if d, err = parseFloats9(sds); err != nil {
			return w, d, c, false, fmt.Errorf("-D: %w", err)
		}
	}
	c = [3]float64{1, 1, 1}
	if scale != "" {
		parsed, err := parseFloatsN(scale, 3)
		if err != nil {
			return w, d, c, false, fmt.Errorf("-C: %w", err)
		}
		copy(c[:], parsed)
	}
	return w, d, c, true, nil
}

func parseFloats9(s string) ([9]float64, error) {
	var out [9]float64
	v, err := parseFloatsN(s, 9)
	if err != nil {
		return out, err
	}
	copy(out[:], v)
	return out, nil
}

func parseFloatsN(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
