package models

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// buildClips converts every document animation into a Clip. Channels that
// target morph weights or no node are dropped; the clip keeps the rest.
func buildClips(doc *gltf.Document, nodes []*Node) ([]*Clip, error) {
	clips := make([]*Clip, 0, len(doc.Animations))
	for ai, ga := range doc.Animations {
		name := ga.Name
		if name == "" {
			name = fmt.Sprintf("animation_%d", ai)
		}

		var tracks []*Track
		for ci, ch := range ga.Channels {
			tr, err := buildTrack(doc, ga, ch, nodes)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: %w", name, ci, err)
			}
			if tr != nil {
				tracks = append(tracks, tr)
			}
		}
		clips = append(clips, NewClip(name, tracks))
	}
	return clips, nil
}

func buildTrack(doc *gltf.Document, ga *gltf.Animation, ch *gltf.AnimationChannel, nodes []*Node) (*Track, error) {
	if ch.Target.Node == nil {
		return nil, nil
	}
	if *ch.Target.Node < 0 || *ch.Target.Node >= len(nodes) {
		return nil, fmt.Errorf("target node %d out of range", *ch.Target.Node)
	}

	var path TrackPath
	switch ch.Target.Path {
	case gltf.TRSTranslation:
		path = PathTranslation
	case gltf.TRSRotation:
		path = PathRotation
	case gltf.TRSScale:
		path = PathScale
	default:
		return nil, nil
	}

	if ch.Sampler < 0 || ch.Sampler >= len(ga.Samplers) {
		return nil, fmt.Errorf("sampler index %d out of range", ch.Sampler)
	}
	s := ga.Samplers[ch.Sampler]

	times, err := readFloats(doc, s.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	values, err := readFloats(doc, s.Output)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	tr := &Track{
		Node:   nodes[*ch.Target.Node],
		Path:   path,
		Times:  times,
		Values: values,
	}
	switch s.Interpolation {
	case gltf.InterpolationStep:
		tr.Interpolation = InterpolationStep
	case gltf.InterpolationCubicSpline:
		tr.Interpolation = InterpolationCubicSpline
	default:
		tr.Interpolation = InterpolationLinear
	}

	want := len(times) * path.Components()
	if tr.Interpolation == InterpolationCubicSpline {
		want *= 3
	}
	if len(values) != want {
		return nil, fmt.Errorf("%s: got %d values for %d keys, want %d", path, len(values), len(times), want)
	}
	return tr, nil
}

// readFloats reads an accessor and flattens it to float64. Normalized
// integer components (quantized rotations) are mapped to [-1, 1] or [0, 1].
func readFloats(doc *gltf.Document, idx int) ([]float64, error) {
	acc, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []float32:
		return flatten(v, func(f float32) float64 { return float64(f) }), nil
	case [][3]float32:
		return flattenN(v, func(f float32) float64 { return float64(f) }), nil
	case [][4]float32:
		return flattenN(v, func(f float32) float64 { return float64(f) }), nil
	case [][4]int8:
		return flattenN(v, func(c int8) float64 { return max(float64(c)/127, -1) }), nil
	case [][4]uint8:
		return flattenN(v, func(c uint8) float64 { return float64(c) / 255 }), nil
	case [][4]int16:
		return flattenN(v, func(c int16) float64 { return max(float64(c)/32767, -1) }), nil
	case [][4]uint16:
		return flattenN(v, func(c uint16) float64 { return float64(c) / 65535 }), nil
	default:
		return nil, fmt.Errorf("unsupported accessor data %T", data)
	}
}

func flatten[T any](in []T, conv func(T) float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = conv(x)
	}
	return out
}

func flattenN[A ~[3]T | ~[4]T, T any](in []A, conv func(T) float64) []float64 {
	out := make([]float64, 0, len(in)*4)
	for _, a := range in {
		for i := 0; i < len(a); i++ {
			out = append(out, conv(a[i]))
		}
	}
	return out
}
