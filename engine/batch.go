// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

// BatchGroup is a group of objects that share one
// material. The program and textures of the material
// are set once for the whole group, instead of once
// per object.
// The group's root is an invisible container that is
// never drawn itself.
type BatchGroup struct {
	root *Object
	mat  *Material
}

// NewBatchGroup creates an empty batch group.
func NewBatchGroup(name string, mat *Material) (*BatchGroup, error) {
	if mat == nil {
		return nil, newObjErr("batch group requires a material")
	}
	g := &BatchGroup{root: NewObject(name), mat: mat}
	g.root.visible = false
	g.root.group = g
	g.root.mat = mat
	return g, nil
}

// Object returns the root of g, to be added to a scene
// or to another object.
func (g *BatchGroup) Object() *Object { return g.root }

// Material returns the shared material of g.
func (g *BatchGroup) Material() *Material { return g.mat }

// Add adds o to g.
// o must have no material or the material of g.
func (g *BatchGroup) Add(o *Object) error { return g.root.AddChild(o) }

// Remove removes o from g.
func (g *BatchGroup) Remove(o *Object) bool { return g.root.RemoveChild(o) }

// Len returns the number of objects in g.
func (g *BatchGroup) Len() int { return len(g.root.children) }
