// Copyright © 2026 the AUSAXS authors.
// This file is part of AUSAXS.
//
// AUSAXS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ausaxs

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
)

// checkpointMagic and checkpointVersion identify the little-endian
// binary checkpoint format (spec §4.7): a cached PartialHistogramSet
// that is cheaper to reload than to recompute from atom positions.
var checkpointMagic = [4]byte{'A', 'U', 'S', 'X'}

const checkpointVersion uint32 = 1

type partialTag uint16

const (
	tagAa partialTag = iota
	tagAw
	tagWw
	tagAx
	tagXx
	tagWx
)

var checkpointTags = []struct {
	tag partialTag
	get func(*PartialHistogramSet) *Distribution1D
}{
	{tagAa, func(s *PartialHistogramSet) *Distribution1D { return s.Aa }},
	{tagAw, func(s *PartialHistogramSet) *Distribution1D { return s.Aw }},
	{tagWw, func(s *PartialHistogramSet) *Distribution1D { return s.Ww }},
	{tagAx, func(s *PartialHistogramSet) *Distribution1D { return s.Ax }},
	{tagXx, func(s *PartialHistogramSet) *Distribution1D { return s.Xx }},
	{tagWx, func(s *PartialHistogramSet) *Distribution1D { return s.Wx }},
}

// WriteCheckpoint serializes set to path in the AUSX binary format:
// magic(4) version(u32) bodyCount(u32) binCount(u32), then for each of
// the six partial categories present: tag(u16) length(u32) values(f64
// ×length).
func WriteCheckpoint(path string, set *PartialHistogramSet, bodyCount int) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if _, err := w.Write(checkpointMagic[:]); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := binary.Write(w, binary.LittleEndian, checkpointVersion); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(bodyCount)); err != nil {
		return &IOError{Path: path, Err: err}
	}
	bins := uint32(set.Aa.Bins())
	if err := binary.Write(w, binary.LittleEndian, bins); err != nil {
		return &IOError{Path: path, Err: err}
	}

	for _, entry := range checkpointTags {
		d := entry.get(set)
		if d == nil {
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(entry.tag)); err != nil {
			return &IOError{Path: path, Err: err}
		}
		vals := d.ToSlice()
		if err := binary.Write(w, binary.LittleEndian, uint32(len(vals))); err != nil {
			return &IOError{Path: path, Err: err}
		}
		if err := binary.Write(w, binary.LittleEndian, vals); err != nil {
			return &IOError{Path: path, Err: err}
		}
	}

	return w.Flush()
}

// ReadCheckpoint deserializes a checkpoint written by WriteCheckpoint.
// A corrupt or truncated file is reported as an IOError and must be
// treated as non-fatal by the caller: spec §4.7 requires discarding it
// and recomputing from scratch rather than aborting the run.
func ReadCheckpoint(path string, binWidth float64) (set *PartialHistogramSet, bodyCount int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, &IOError{Path: path, Err: err}
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, 0, &IOError{Path: path, Err: err}
	}
	if magic != checkpointMagic {
		return nil, 0, &IOError{Path: path, Err: errCorruptCheckpoint("bad magic")}
	}

	var version, bc, bins uint32
	for _, p := range []*uint32{&version, &bc, &bins} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return nil, 0, &IOError{Path: path, Err: errCorruptCheckpoint("truncated header")}
		}
	}
	if version != checkpointVersion {
		return nil, 0, &IOError{Path: path, Err: errCorruptCheckpoint("unsupported version")}
	}

	set = newPartialHistogramSet(KindPlain, ExvNone, int(bins), binWidth)
	set.Aa = NewDistribution1D(int(bins), binWidth)

	for {
		var tag16 uint16
		if err := binary.Read(r, binary.LittleEndian, &tag16); err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, &IOError{Path: path, Err: errCorruptCheckpoint("truncated tag")}
		}
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, 0, &IOError{Path: path, Err: errCorruptCheckpoint("truncated length")}
		}
		if n != bins {
			return nil, 0, &IOError{Path: path, Err: errCorruptCheckpoint("partial length does not match bin count")}
		}
		vals := make([]float64, n)
		if err := binary.Read(r, binary.LittleEndian, vals); err != nil {
			return nil, 0, &IOError{Path: path, Err: errCorruptCheckpoint("truncated values")}
		}
		d := NewDistribution1D(int(bins), binWidth)
		for b, v := range vals {
			d.Set(b, v)
		}
		switch partialTag(tag16) {
		case tagAa:
			set.Aa = d
		case tagAw:
			set.Aw = d
		case tagWw:
			set.Ww = d
		case tagAx:
			set.Ax = d
		case tagXx:
			set.Xx = d
		case tagWx:
			set.Wx = d
		default:
			return nil, 0, &IOError{Path: path, Err: errCorruptCheckpoint("unknown partial tag")}
		}
	}

	return set, int(bc), nil
}

type corruptCheckpointError string

func (e corruptCheckpointError) Error() string { return "corrupt checkpoint: " + string(e) }

func errCorruptCheckpoint(msg string) error { return corruptCheckpointError(msg) }
