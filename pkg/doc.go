// Package pkg provides the core libraries for the Nimbus word-cloud engine.
//
// # Overview
//
// Nimbus places weighted tags on a canvas without overlap, spiraling each
// tag outward from the center until it finds a free spot. The pkg directory
// is organized into:
//
//  1. [cloud] - Layout orchestration (weight sorting, font sizing, placement)
//  2. [cloud/grid] - Downsampled bit-grid occupancy tracking and the spiral search
//  3. [cloud/mask] - Rasterized-image to occupancy-grid conversion
//  4. [raster] - Text rasterization (font resolution, padding, rotation)
//  5. [export] - PNG, SVG, and JSON sinks for finished layouts
//  6. [cache], [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through Nimbus:
//
//	Tags (text + weight)
//	         ↓
//	raster: text → ink image
//	         ↓
//	mask: ink image → bit-grid mask
//	         ↓
//	grid: spiral search over the occupancy grid
//	         ↓
//	cloud: Results (position, font size, angle, color)
//	         ↓
//	export: PNG / SVG / JSON
package pkg
