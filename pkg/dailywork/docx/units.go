// Package docx reads and edits WordprocessingML (.docx) packages.
package docx

// HalfPointsPerPoint is the number of half-points in a point.
// WordprocessingML stores run font sizes (w:sz, w:szCs) in half-points,
// so a 12pt font is written as w:val="24".
const HalfPointsPerPoint = 2

// PointsToHalfPoints converts a font size in points to half-points.
func PointsToHalfPoints(pt int) int {
	return pt * HalfPointsPerPoint
}

// HalfPointsToPoints converts a w:sz value to points, rounding down.
func HalfPointsToPoints(hp int) int {
	return hp / HalfPointsPerPoint
}
