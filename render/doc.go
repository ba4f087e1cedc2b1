// Package render turns snowflake geometry into things that can be drawn.
//
// It owns the CPU side of the pipeline shared by every backend:
//
//	koch vertices → LineMesh (vertex + index buffers) → backend upload.
//
// GPU backends upload a LineMesh directly (OpenGL) or expand it into screen-space quads
// (Ebitengine, which only rasterizes triangles). The software Raster draws the same mesh
// into a Target for headless runs and image snapshots.
package render
