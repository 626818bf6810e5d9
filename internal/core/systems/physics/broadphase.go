package physics

// Pair is a candidate pair produced by the broad phase. A always precedes B
// in world insertion order.
type Pair struct {
	A, B *GameObject
}

// BroadPhase appends to dst every unordered pair whose cached bounds overlap,
// skipping pairs where both bodies are static. Pairs are emitted with the
// outer index ascending and the inner index greater than the outer, which
// fixes the resolution order.
func BroadPhase(objects []*GameObject, dst []Pair) []Pair {
	for i := 0; i < len(objects); i++ {
		a := objects[i]
		for j := i + 1; j < len(objects); j++ {
			b := objects[j]

			if a.Body.IsStatic() && b.Body.IsStatic() {
				continue
			}
			if !Overlap(a.bounds, b.bounds) {
				continue
			}
			dst = append(dst, Pair{A: a, B: b})
		}
	}
	return dst
}
