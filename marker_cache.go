package main

import (
	"image"
)

// TextureHandle is a GPU texture the draw stage can bind.
type TextureHandle interface {
	Bind()
	Close() error
}

// TextureFactory uploads a bitmap and returns its GPU handle.
type TextureFactory func(img *image.RGBA) (TextureHandle, error)

type cachedTexture struct {
	lengthPixels  float64
	breadthPixels float64
	dpr           float64
	bitmap        *MarkerBitmap
	handle        TextureHandle
}

// MarkerCache keeps exactly one marker texture alive and rebuilds it
// only when the requested size drifts beyond the tolerance.
type MarkerCache struct {
	upload      TextureFactory
	tolerance   float64
	cached      *cachedTexture
	synthesized int
}

func NewMarkerCache(upload TextureFactory, tolerance float64) *MarkerCache {
	if tolerance < 0 {
		tolerance = DefaultMarkerTolerance
	}
	return &MarkerCache{
		upload:    upload,
		tolerance: tolerance,
	}
}

func (mc *MarkerCache) matches(spec MarkerSpec) bool {
	c := mc.cached
	if c == nil {
		return false
	}
	return approxEqual(c.lengthPixels, spec.LengthPixels, mc.tolerance) &&
		approxEqual(c.breadthPixels, spec.BreadthPixels, mc.tolerance) &&
		c.dpr == spec.DevicePixelRatio
}

// EnsureTexture returns the texture for spec, rebuilding it if needed.
// A nil result means nothing can be drawn this frame.
func (mc *MarkerCache) EnsureTexture(spec MarkerSpec) TextureHandle {
	if mc.matches(spec) {
		return mc.cached.handle
	}
	mc.release()
	entry := &cachedTexture{
		lengthPixels:  spec.LengthPixels,
		breadthPixels: spec.BreadthPixels,
		dpr:           spec.DevicePixelRatio,
	}
	mc.cached = entry
	mc.synthesized++
	bitmap := SynthesizeMarker(spec)
	if bitmap == nil {
		logger.Debug("marker size degenerate", "length", spec.LengthPixels, "breadth", spec.BreadthPixels)
		return nil
	}
	handle, err := mc.upload(bitmap.Image)
	if err != nil {
		logger.Warn("marker texture upload failed", "error", err)
		return nil
	}
	entry.bitmap = bitmap
	entry.handle = handle
	logger.Debug("marker texture rebuilt",
		"length", spec.LengthPixels,
		"breadth", spec.BreadthPixels,
		"dpr", spec.DevicePixelRatio,
		"size", bitmap.Image.Bounds().Size())
	return handle
}

// Bitmap returns the CPU copy of the cached marker, if any.
func (mc *MarkerCache) Bitmap() *MarkerBitmap {
	if mc.cached == nil {
		return nil
	}
	return mc.cached.bitmap
}

// Synthesized counts how many times a marker bitmap was generated.
func (mc *MarkerCache) Synthesized() int {
	return mc.synthesized
}

func (mc *MarkerCache) release() {
	if mc.cached == nil {
		return
	}
	if mc.cached.handle != nil {
		if err := mc.cached.handle.Close(); err != nil {
			logger.Warn("marker texture release failed", "error", err)
		}
	}
	mc.cached = nil
}

func (mc *MarkerCache) Close() error {
	mc.release()
	return nil
}
