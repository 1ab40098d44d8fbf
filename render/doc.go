// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render defines the render-target boundary for rtex.
//
// It provides the Target interface (a drawable, samplable pixel surface
// with restore-after-context-loss observation), a CPU-backed Pixmap
// implementation, and a registry through which allocation backends select
// themselves by priority. GPU backends register via blank import:
//
//	import _ "github.com/gogpu/rtex/backend/hal"
package render
