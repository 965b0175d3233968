package models

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"net/url"
	"path"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Wrap is how texture coordinates outside [0,1] are folded back.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClamp
	WrapMirror
)

// Texture is a decoded base color image with the sampler settings of the
// material that references it. Meshes sharing a glTF texture share one
// *Texture.
type Texture struct {
	Name  string
	Image image.Image
	WrapS Wrap
	WrapT Wrap
	// Nearest is set when the sampler asks for NEAREST magnification.
	Nearest bool
}

// textureSet decodes document textures on first use.
type textureSet struct {
	doc   *gltf.Document
	fsys  fs.FS
	cache map[int]*Texture
}

func newTextureSet(doc *gltf.Document, fsys fs.FS) *textureSet {
	return &textureSet{doc: doc, fsys: fsys, cache: make(map[int]*Texture)}
}

// baseColor returns the texture bound to the primitive's base color slot,
// or nil when there is none or it cannot be decoded. Only TEXCOORD_0 is
// read, so textures on other sets are ignored.
func (ts *textureSet) baseColor(prim *gltf.Primitive) *Texture {
	doc := ts.doc
	if prim.Material == nil || *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
		return nil
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil || pbr.BaseColorTexture.TexCoord != 0 {
		return nil
	}
	return ts.get(pbr.BaseColorTexture.Index)
}

func (ts *textureSet) get(idx int) *Texture {
	if tex, ok := ts.cache[idx]; ok {
		return tex
	}
	tex, err := ts.load(idx)
	if err != nil {
		tex = nil
	}
	ts.cache[idx] = tex
	return tex
}

func (ts *textureSet) load(idx int) (*Texture, error) {
	doc := ts.doc
	if idx < 0 || idx >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", idx)
	}
	gt := doc.Textures[idx]
	if gt.Source == nil || *gt.Source < 0 || *gt.Source >= len(doc.Images) {
		return nil, fmt.Errorf("texture %d has no image", idx)
	}
	gi := doc.Images[*gt.Source]

	data, err := ts.imageData(gi)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", gi.Name, err)
	}

	tex := &Texture{Name: gi.Name, Image: img}
	if gt.Sampler != nil && *gt.Sampler >= 0 && *gt.Sampler < len(doc.Samplers) {
		s := doc.Samplers[*gt.Sampler]
		tex.WrapS = wrapOf(s.WrapS)
		tex.WrapT = wrapOf(s.WrapT)
		tex.Nearest = s.MagFilter == gltf.MagNearest
	}
	return tex, nil
}

// imageData returns the encoded bytes of an image stored in a buffer view,
// a data URI or a file next to the asset.
func (ts *textureSet) imageData(gi *gltf.Image) ([]byte, error) {
	switch {
	case gi.BufferView != nil:
		if *gi.BufferView < 0 || *gi.BufferView >= len(ts.doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range", *gi.BufferView)
		}
		return modeler.ReadBufferView(ts.doc, ts.doc.BufferViews[*gi.BufferView])
	case gi.IsEmbeddedResource():
		return gi.MarshalData()
	case gi.URI != "" && ts.fsys != nil:
		name, err := url.PathUnescape(gi.URI)
		if err != nil {
			return nil, err
		}
		return fs.ReadFile(ts.fsys, path.Clean(name))
	default:
		return nil, errors.New("image has no data")
	}
}

func wrapOf(m gltf.WrappingMode) Wrap {
	switch m {
	case gltf.WrapClampToEdge:
		return WrapClamp
	case gltf.WrapMirroredRepeat:
		return WrapMirror
	default:
		return WrapRepeat
	}
}
