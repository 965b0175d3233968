// Package testasset builds small glTF documents in memory for tests.
package testasset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// BoxNode is the index of the animated box node in Box documents.
const BoxNode = 0

// boxPaint is the base color factor of the untextured box material.
var boxPaint = [4]float64{0.8, 0.2, 0.2, 1}

// Box returns a document with one node holding a box mesh of the given
// size, centered at center. When animated is true the document carries one
// clip "spin" that moves the node along +X from 0 to 1 over one second.
func Box(size, center [3]float32, animated bool) *gltf.Document {
	doc := gltf.NewDocument()
	paint := boxPaint
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:                 "paint",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &paint},
	})
	addBox(doc, "box", size, center, len(doc.Materials)-1, false)

	if animated {
		input := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
		output := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {1, 0, 0}})
		doc.Animations = []*gltf.Animation{{
			Name: "spin",
			Samplers: []*gltf.AnimationSampler{{
				Input:         input,
				Output:        output,
				Interpolation: gltf.InterpolationLinear,
			}},
			Channels: []*gltf.AnimationChannel{{
				Sampler: 0,
				Target:  gltf.AnimationChannelTarget{Node: gltf.Index(BoxNode), Path: gltf.TRSTranslation},
			}},
		}}
	}
	return doc
}

// AddImage stores a 4x4 PNG of solid color c in a buffer view and returns
// its image index. Nothing references the image until a texture does.
func AddImage(doc *gltf.Document, name string, c color.RGBA) int {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	idx, err := modeler.WriteImage(doc, name, "image/png", &buf)
	if err != nil {
		panic(err)
	}
	return idx
}

// AddTexturedBox appends a box node whose white material samples image img
// through TEXCOORD_0 and returns the node index. A nil sampler leaves the
// texture on glTF defaults.
func AddTexturedBox(doc *gltf.Document, name string, size, center [3]float32, img int, sampler *gltf.Sampler) int {
	tex := &gltf.Texture{Name: name, Source: gltf.Index(img)}
	if sampler != nil {
		doc.Samplers = append(doc.Samplers, sampler)
		tex.Sampler = gltf.Index(len(doc.Samplers) - 1)
	}
	doc.Textures = append(doc.Textures, tex)

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float64{1, 1, 1, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: len(doc.Textures) - 1},
		},
	})
	return addBox(doc, name, size, center, len(doc.Materials)-1, true)
}

// addBox appends a box mesh and a node holding it to the default scene.
func addBox(doc *gltf.Document, name string, size, center [3]float32, material int, withUVs bool) int {
	hx, hy, hz := size[0]/2, size[1]/2, size[2]/2
	cx, cy, cz := center[0], center[1], center[2]
	positions := [][3]float32{
		{cx - hx, cy - hy, cz - hz}, {cx + hx, cy - hy, cz - hz},
		{cx + hx, cy + hy, cz - hz}, {cx - hx, cy + hy, cz - hz},
		{cx - hx, cy - hy, cz + hz}, {cx + hx, cy - hy, cz + hz},
		{cx + hx, cy + hy, cz + hz}, {cx - hx, cy + hy, cz + hz},
	}
	indices := []uint16{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
	}

	attrs := gltf.PrimitiveAttributes{gltf.POSITION: modeler.WritePosition(doc, positions)}
	if withUVs {
		uvs := [][2]float32{
			{0, 1}, {1, 1}, {1, 0}, {0, 0},
			{0, 1}, {1, 1}, {1, 0}, {0, 0},
		}
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: attrs,
			Material:   gltf.Index(material),
		}},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	node := len(doc.Nodes) - 1
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, node)
	return node
}

// GLB encodes doc as a binary glTF container.
func GLB(doc *gltf.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
