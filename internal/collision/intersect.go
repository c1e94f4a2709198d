package collision

import "github.com/Faultbox/walkbounds/pkg/math"

// onTriangleEpsilon is the center distance below which the sphere counts as
// lying on the triangle, where the center-to-closest direction is noise.
const onTriangleEpsilon = 1e-3

// ClosestPointOnTriangle returns the point of t nearest to p, found by
// classifying p against the triangle's vertex, edge and face regions.
func ClosestPointOnTriangle(p math.Vec3, t Triangle) math.Vec3 {
	if t.Degenerate() {
		return closestOnEdges(p, t)
	}

	a, b, c := t.P0, t.P1, t.P2
	ab := b.Sub(a)
	ac := c.Sub(a)

	// Vertex region A
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	// Vertex region B
	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	// Edge region AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v))
	}

	// Vertex region C
	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	// Edge region AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w))
	}

	// Edge region BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w))
	}

	// Face region
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}

// IntersectSphereTriangle reports whether s penetrates t and, if so, the minimum
// displacement that moves the sphere center to exactly Radius from the triangle.
// Touching (distance == Radius) is not a hit.
func IntersectSphereTriangle(s Sphere, t Triangle) (push math.Vec3, hit bool) {
	closest := ClosestPointOnTriangle(s.Center, t)
	d := s.Center.Sub(closest)
	distSq := d.LengthSq()
	if distSq >= s.Radius*s.Radius {
		return math.Vec3{}, false
	}

	dist := d.Length()
	if dist < onTriangleEpsilon {
		// Center lies on the triangle: leave along the face normal.
		n := t.Normal()
		if n == (math.Vec3{}) {
			return math.Vec3{}, false
		}
		return n.Scale(s.Radius), true
	}
	return d.Scale((s.Radius - dist) / dist), true
}

func closestOnEdges(p math.Vec3, t Triangle) math.Vec3 {
	best := closestOnSegment(p, t.P0, t.P1)
	bestSq := p.Sub(best).LengthSq()
	for _, e := range [2][2]math.Vec3{{t.P1, t.P2}, {t.P2, t.P0}} {
		q := closestOnSegment(p, e[0], e[1])
		if d := p.Sub(q).LengthSq(); d < bestSq {
			best, bestSq = q, d
		}
	}
	return best
}

func closestOnSegment(p, a, b math.Vec3) math.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}
