package physics

import "math"

// satPolygons runs the separating axis test over the edge normals of both
// polygons. It returns a zero normal and depth when a separating axis exists;
// otherwise the axis of least overlap, oriented from centerB toward centerA.
func satPolygons(va, vb []Vec2, centerA, centerB Vec2) (Vec2, float64) {
	normal := Vec2{}
	depth := math.Inf(1)

	for _, poly := range [2][]Vec2{va, vb} {
		for i := range poly {
			edge := poly[(i+1)%len(poly)].Sub(poly[i])
			axis := edge.Perpendicular().Normalize()

			minA, maxA := projectVertices(va, axis)
			minB, maxB := projectVertices(vb, axis)

			overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
			if overlap <= 0 {
				return Vec2{}, 0
			}
			if overlap < depth {
				depth = overlap
				normal = axis
			}
		}
	}

	if centerA.Sub(centerB).Dot(normal) < 0 {
		normal = normal.Neg()
	}
	return normal, depth
}

// satPolygonCircle tests the polygon's edge normals plus the axis from the
// circle center to the nearest polygon vertex. The returned normal points
// from the circle toward polygonCenter.
func satPolygonCircle(vertices []Vec2, circleCenter Vec2, radius float64, polygonCenter Vec2) (Vec2, float64) {
	normal := Vec2{}
	depth := math.Inf(1)

	test := func(axis Vec2) bool {
		polyMin, polyMax := projectVertices(vertices, axis)
		circleMin, circleMax := projectCircle(circleCenter, radius, axis)

		overlap := math.Min(circleMax-polyMin, polyMax-circleMin)
		if overlap <= 0 {
			return false
		}
		if overlap < depth {
			depth = overlap
			normal = axis
		}
		return true
	}

	for i := range vertices {
		edge := vertices[(i+1)%len(vertices)].Sub(vertices[i])
		if !test(edge.Perpendicular().Normalize()) {
			return Vec2{}, 0
		}
	}

	// Vertex regions are only separated along the center-to-vertex axis; edge
	// regions are already covered above.
	if axis := closestVertex(vertices, circleCenter).Sub(circleCenter).Normalize(); axis != (Vec2{}) {
		if !test(axis) {
			return Vec2{}, 0
		}
	}

	if polygonCenter.Sub(circleCenter).Dot(normal) < 0 {
		normal = normal.Neg()
	}
	return normal, depth
}

func projectVertices(vertices []Vec2, axis Vec2) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vertices {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func projectCircle(center Vec2, radius float64, axis Vec2) (float64, float64) {
	d := center.Dot(axis)
	return d - radius, d + radius
}

func closestVertex(vertices []Vec2, p Vec2) Vec2 {
	best := Vec2{}
	bestDist := math.Inf(1)
	for _, v := range vertices {
		if d := v.DistanceSq(p); d < bestDist {
			bestDist = d
			best = v
		}
	}
	return best
}
