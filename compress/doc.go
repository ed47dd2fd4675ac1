// Package compress provides compression codecs for the record cache's stored
// byte spans (see the capture package).
//
// The core NBT reader/writer never import this package: the wire format
// itself carries no compression (compression, if any, is applied externally
// by the caller, e.g. via nbtfile's gzip/zlib wrapping). This package exists
// solely to shrink the record cache's footprint when a caller repeatedly
// captures structurally-similar subtrees (chunk sections in a region file,
// for instance) and wants to keep many of them around without re-reading the
// source.
//
// Four algorithms are available:
//   - None: no compression, fastest
//   - LZ4: fast compression and very fast decompression
//   - S2: balanced speed and ratio
//   - Zstd: best ratio, for cold/archival entries
package compress
