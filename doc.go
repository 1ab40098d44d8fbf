// Package rtex provides persistent render-to-texture canvases for Go.
//
// # Overview
//
// rtex manages GPU-backed render targets that displayable content can be
// painted onto incrementally, like a persistent canvas. It handles the
// lifecycle details render-to-texture gets wrong easily: double buffering
// on hardware that cannot read a target while writing it, carrying content
// forward across buffer swaps, batching many draws into one setup/teardown
// bracket, and surviving device loss through restore hooks.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/rtex"
//	    "github.com/gogpu/rtex/painter"
//	)
//
//	p := painter.New()
//	rt, err := rtex.New(p, 256, 256, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Dispose()
//
//	// Accumulate content across frames.
//	rt.Draw(sprite)
//	rt.Draw(other, rtex.WithMatrix(painter.Translate(32, 32)))
//
//	// Batch many draws into one session.
//	rt.DrawBundled(func() error {
//	    for _, obj := range objects {
//	        rt.Draw(obj)
//	    }
//	    return nil
//	})
//
// # Architecture
//
// The module is organized into:
//   - Public API: RenderTexture, Option, DrawOption, the buffering policy
//   - painter: rendering state stack, transforms, projection, blending
//   - render: target abstraction, allocation backend registry, profiles
//   - backend/hal: GPU texture targets via gogpu/wgpu (blank import)
//   - cache: context-scoped shared data store
//
// # Coordinate System
//
// Sizes are given in logical points; buffers may be physically larger
// (content scale, power-of-two padding on constrained hardware). Origin
// (0,0) is top-left, X increases right, Y increases down.
//
// # Threading
//
// All drawing runs on a single render thread. Only SetLogger is safe for
// concurrent use.
package rtex

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
