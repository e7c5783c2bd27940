// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package meshfile implements a binary container for
// mesh geometry.
//
// A file starts with a header of three little-endian
// uint32 values (magic, version and total length in
// bytes), followed by a sequence of chunks. Each chunk
// has a two-uint32 header (payload length and type)
// followed by the payload. Payloads hold little-endian
// float32 or uint32 values, so every chunk is 4-byte
// aligned.
package meshfile

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// File header.
type header [3]uint32

// Indices in header.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// Chunk header.
type chunk [2]uint32

// Indices in chunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// header[headerMagic] ("SGLM").
	magic = 0x4d4c4753
	// header[headerVersion].
	Version = 1

	headerSize = 12
	chunkSize  = 8
)

// Chunk types.
const (
	typeVERT = 0x54524556
	typeNORM = 0x4d524f4e
	typeTEXC = 0x43584554
	typeCOLR = 0x524c4f43
	typeINDX = 0x58444e49
)

const prefix = "meshfile: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// ErrFormat means that the data is not a mesh file.
var ErrFormat = newErr("not a mesh file")

// Mesh is the geometry stored in a mesh file.
// Only Vertices is required.
type Mesh struct {
	Vertices  []float32 // xyz
	Normals   []float32 // xyz
	TexCoords []float32 // uv
	Colors    []float32 // rgba
	Indices   []uint32
}

// NumVertices returns the number of vertices in m.
func (m *Mesh) NumVertices() int { return len(m.Vertices) / 3 }

// Check checks that m is a valid mesh.
func (m *Mesh) Check() error {
	n := m.NumVertices()
	var reason string
	switch {
	case n == 0 || len(m.Vertices)%3 != 0:
		reason = "invalid Mesh.Vertices length"
	case len(m.Normals) != 0 && len(m.Normals) != 3*n:
		reason = "invalid Mesh.Normals length"
	case len(m.TexCoords) != 0 && len(m.TexCoords) != 2*n:
		reason = "invalid Mesh.TexCoords length"
	case len(m.Colors) != 0 && len(m.Colors) != 4*n:
		reason = "invalid Mesh.Colors length"
	default:
		for _, i := range m.Indices {
			if int(i) >= n {
				return newErr("Mesh.Indices out of bounds")
			}
		}
		return nil
	}
	return newErr(reason)
}

// IsMeshFile returns whether r refers to a mesh file
// of a supported version.
// It assumes that r was positioned accordingly.
func IsMeshFile(r io.Reader) bool {
	_, err := readHeader(r)
	return err == nil
}

func readHeader(r io.Reader) (h header, err error) {
	err = binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil:
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrFormat
		}
	case h[headerMagic] != magic:
		err = ErrFormat
	case h[headerVersion] != Version:
		err = newErr("unsupported version")
	case h[headerLength] < headerSize || h[headerLength]%4 != 0:
		err = newErr("invalid header length")
	}
	return
}

// Encode writes m to w as a mesh file.
func Encode(w io.Writer, m *Mesh) error {
	if err := m.Check(); err != nil {
		return err
	}
	type part struct {
		typ uint32
		f   []float32
		u   []uint32
	}
	parts := []part{{typ: typeVERT, f: m.Vertices}}
	if len(m.Normals) != 0 {
		parts = append(parts, part{typ: typeNORM, f: m.Normals})
	}
	if len(m.TexCoords) != 0 {
		parts = append(parts, part{typ: typeTEXC, f: m.TexCoords})
	}
	if len(m.Colors) != 0 {
		parts = append(parts, part{typ: typeCOLR, f: m.Colors})
	}
	if len(m.Indices) != 0 {
		parts = append(parts, part{typ: typeINDX, u: m.Indices})
	}

	length := headerSize
	for _, p := range parts {
		length += chunkSize + 4*(len(p.f)+len(p.u))
	}
	if int64(length) > math.MaxUint32 {
		return newErr("mesh too large")
	}
	h := header{magic, Version, uint32(length)}
	if err := binary.Write(w, binary.LittleEndian, h[:]); err != nil {
		return err
	}
	for _, p := range parts {
		c := chunk{uint32(4 * (len(p.f) + len(p.u))), p.typ}
		if err := binary.Write(w, binary.LittleEndian, c[:]); err != nil {
			return err
		}
		var err error
		if p.f != nil {
			err = binary.Write(w, binary.LittleEndian, p.f)
		} else {
			err = binary.Write(w, binary.LittleEndian, p.u)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a mesh file from r.
// Chunks of unknown type are skipped.
func Decode(r io.Reader) (*Mesh, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	var m Mesh
	seen := make(map[uint32]bool)
	for left := h[headerLength] - headerSize; left > 0; {
		if left < chunkSize {
			return nil, newErr("truncated chunk header")
		}
		var c chunk
		if err := binary.Read(r, binary.LittleEndian, c[:]); err != nil {
			return nil, unexpected(err)
		}
		left -= chunkSize
		n := c[chunkLength]
		if n > left || n%4 != 0 {
			return nil, newErr("invalid chunk length")
		}
		left -= n
		if seen[c[chunkType]] {
			return nil, newErr("duplicate chunk")
		}
		seen[c[chunkType]] = true
		var dst *[]float32
		switch c[chunkType] {
		case typeVERT:
			dst = &m.Vertices
		case typeNORM:
			dst = &m.Normals
		case typeTEXC:
			dst = &m.TexCoords
		case typeCOLR:
			dst = &m.Colors
		case typeINDX:
			m.Indices = make([]uint32, n/4)
			if err := binary.Read(r, binary.LittleEndian, m.Indices); err != nil {
				return nil, unexpected(err)
			}
			continue
		default:
			if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
				return nil, unexpected(err)
			}
			continue
		}
		*dst = make([]float32, n/4)
		if err := binary.Read(r, binary.LittleEndian, *dst); err != nil {
			return nil, unexpected(err)
		}
	}
	if !seen[typeVERT] {
		return nil, newErr("missing VERT chunk")
	}
	if err := m.Check(); err != nil {
		return nil, err
	}
	return &m, nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
