// Package heatmap aggregates per-session telemetry into per-level rasters.
//
// A run has two stages. The optional bounds stage scans the whole corpus and
// produces an immutable level -> world rectangle table. The accumulation
// stage then walks the corpus once more, lazily creating one LevelState per
// level and blending every record into that level's path, heatmap, death and
// event rasters. After the last record each level is finalized and its
// derived images are composited.
//
// Processing is strictly sequential. Blends are saturating sums of
// non-negative contributions, so the rasters do not depend on record order.
package heatmap
