package models

import (
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/vitrine/pkg/math3d"
	_ "golang.org/x/image/webp"
)

// Asset is everything the viewer takes from one GLB file.
type Asset struct {
	// Root groups the asset's scene roots under an identity transform.
	Root *Node
	// Clips are the animations in file order; possibly empty.
	Clips []*Clip
}

// GLTFLoader loads GLTF/GLB data into an Asset.
type GLTFLoader struct {
	// CalculateNormals generates normals for primitives that have none.
	CalculateNormals bool
	// SmoothNormals averages generated normals across shared vertices;
	// when false every face gets its own flat-shaded vertices.
	SmoothNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// Decode reads a GLB or GLTF stream. External buffers and images are
// resolved against fsys; pass nil when the asset must be self-contained.
func (l *GLTFLoader) Decode(r io.Reader, fsys fs.FS, name string) (*Asset, error) {
	var dec *gltf.Decoder
	if fsys != nil {
		dec = gltf.NewDecoderFS(r, fsys)
	} else {
		dec = gltf.NewDecoder(r)
	}

	doc := new(gltf.Document)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}
	return l.build(doc, name, fsys)
}

// Build converts a decoded document into an Asset. Images referenced by
// relative URI are skipped; use Decode to resolve them.
func (l *GLTFLoader) Build(doc *gltf.Document, name string) (*Asset, error) {
	return l.build(doc, name, nil)
}

func (l *GLTFLoader) build(doc *gltf.Document, name string, fsys fs.FS) (*Asset, error) {
	textures := newTextureSet(doc, fsys)
	nodes := make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n, err := l.buildNode(doc, gn, textures)
		if err != nil {
			return nil, fmt.Errorf("process node %d %q: %w", i, gn.Name, err)
		}
		nodes[i] = n
	}

	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < 0 || c >= len(nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			nodes[i].Add(nodes[c])
		}
	}

	root := NewNode(name)
	for _, idx := range sceneRoots(doc) {
		if idx < 0 || idx >= len(nodes) {
			return nil, fmt.Errorf("scene root index %d out of range", idx)
		}
		root.Add(nodes[idx])
	}

	clips, err := buildClips(doc, nodes)
	if err != nil {
		return nil, err
	}

	return &Asset{Root: root, Clips: clips}, nil
}

// sceneRoots returns the node indices of the default scene. Documents
// without scenes fall back to every node that has no parent.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (l *GLTFLoader) buildNode(doc *gltf.Document, gn *gltf.Node, textures *textureSet) (*Node, error) {
	n := NewNode(gn.Name)
	n.Translation = math3d.V3(gn.Translation[0], gn.Translation[1], gn.Translation[2])

	// Documents assembled in memory skip the JSON defaults, leaving zeros.
	if r := gn.Rotation; r != [4]float64{} {
		n.Rotation = math3d.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}.Normalize()
	}
	if s := gn.Scale; s != [3]float64{} {
		n.Scale = math3d.V3(s[0], s[1], s[2])
	}
	if m := math3d.Mat4(gn.Matrix); m != (math3d.Mat4{}) && !m.IsIdentity() {
		n.Matrix = &m
	}

	if gn.Mesh == nil {
		return n, nil
	}
	if *gn.Mesh < 0 || *gn.Mesh >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", *gn.Mesh)
	}
	gm := doc.Meshes[*gn.Mesh]
	for pi, prim := range gm.Primitives {
		mesh, err := l.processPrimitive(doc, prim, textures, fmt.Sprintf("%s.%d", gm.Name, pi))
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", gm.Name, err)
		}
		if mesh != nil {
			n.Meshes = append(n.Meshes, mesh)
		}
	}
	return n, nil
}

// processPrimitive extracts geometry from one GLTF primitive. Non-triangle
// primitives yield a nil mesh.
func (l *GLTFLoader) processPrimitive(doc *gltf.Document, prim *gltf.Primitive, textures *textureSet, name string) (*Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		// Skip non-triangle primitives (lines, points, etc)
		return nil, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	posAcc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return nil, err
		}
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return nil, err
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
			return nil, fmt.Errorf("read uvs: %w", err)
		}
	}

	mesh := NewMesh(name)
	mesh.BaseColor = baseColor(doc, prim)
	if len(uvs) > 0 {
		mesh.hasUVs = true
		mesh.Texture = textures.baseColor(prim)
	}

	for i, p := range positions {
		v := MeshVertex{
			Position: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])),
		}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
		}
		if i < len(uvs) {
			// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
			v.UV = math3d.V2(float64(uvs[i][0]), 1.0-float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []uint32
	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, err
		}
		if indices, err = modeler.ReadIndices(doc, acc, nil); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	// GLTF uses CCW winding for front faces; the rasterizer's Y-flip turns
	// that into CW on screen, so the last two indices are swapped.
	for i := 0; i+2 < len(indices); i += 3 {
		f := Face{V: [3]int{int(indices[i]), int(indices[i+2]), int(indices[i+1])}}
		for _, idx := range f.V {
			if idx >= len(mesh.Vertices) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, len(mesh.Vertices))
			}
		}
		mesh.Faces = append(mesh.Faces, f)
	}

	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateFlatNormals()
		}
	}
	mesh.CalculateBounds()

	return mesh, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

// baseColor returns the PBR base color factor of the primitive's material.
func baseColor(doc *gltf.Document, prim *gltf.Primitive) [4]float64 {
	white := [4]float64{1, 1, 1, 1}
	if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
		return white
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return white
	}
	return *pbr.BaseColorFactor
}
