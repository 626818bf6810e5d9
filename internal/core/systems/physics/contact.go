package physics

import "math"

// MaxContacts bounds a convex-convex manifold in 2D.
const MaxContacts = 2

// closestPointOnSegment clamps the projection of p onto segment ab and
// returns it with its squared distance to p.
func closestPointOnSegment(p, a, b Vec2) (Vec2, float64) {
	ab := b.Sub(a)
	t := ab.Dot(p.Sub(a)) / ab.LengthSq()

	var cp Vec2
	switch {
	case t >= 1:
		cp = b
	case t <= 0:
		cp = a
	default:
		cp = a.Add(ab.Scale(t))
	}
	return cp, cp.DistanceSq(p)
}

// polygonContacts finds the vertex/edge pair of minimum distance across
// both polygons. A second point is kept when another candidate matches that
// distance within Epsilon at a different location, which yields two points
// for face contact and one for corner contact.
func polygonContacts(va, vb []Vec2) ([MaxContacts]Vec2, int) {
	var contacts [MaxContacts]Vec2
	count := 0
	minDistSq := math.Inf(1)

	scan := func(points, edges []Vec2) {
		for _, p := range points {
			for j := range edges {
				cp, distSq := closestPointOnSegment(p, edges[j], edges[(j+1)%len(edges)])

				if almostEqual(distSq, minDistSq) && !cp.AlmostEqual(contacts[0]) {
					contacts[1] = cp
					count = 2
				} else if distSq < minDistSq {
					minDistSq = distSq
					contacts[0] = cp
					count = 1
				}
			}
		}
	}

	scan(va, vb)
	scan(vb, va)
	return contacts, count
}

// polygonCircleContact is the point on the polygon boundary closest to the
// circle center.
func polygonCircleContact(vertices []Vec2, circleCenter Vec2) Vec2 {
	var contact Vec2
	minDistSq := math.Inf(1)
	for i := range vertices {
		cp, distSq := closestPointOnSegment(circleCenter, vertices[i], vertices[(i+1)%len(vertices)])
		if distSq < minDistSq {
			minDistSq = distSq
			contact = cp
		}
	}
	return contact
}
