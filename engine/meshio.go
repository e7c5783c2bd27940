// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"io"

	"github.com/gviegas/scenegl/meshfile"
)

// LoadGeometry decodes a mesh file from r into a new
// Geometry. Buffers are created lazily, as with any
// other Geometry.
func LoadGeometry(r io.Reader) (*Geometry, error) {
	m, err := meshfile.Decode(r)
	if err != nil {
		return nil, err
	}
	g := NewGeometry()
	if err := g.SetData(m.Vertices, m.Normals, m.TexCoords, m.Colors, m.Indices); err != nil {
		return nil, err
	}
	return g, nil
}

// SaveGeometry encodes g as a mesh file into w.
func SaveGeometry(w io.Writer, g *Geometry) error {
	return meshfile.Encode(w, &meshfile.Mesh{
		Vertices:  g.Vertices(),
		Normals:   g.Normals(),
		TexCoords: g.TexCoords(),
		Colors:    g.Colors(),
		Indices:   g.Indices(),
	})
}
