// Package export renders packing estimates as downloadable manifests: an Excel
// workbook with a summary sheet and one row per placed item, and a printable
// PDF listing the same placements.
package export
