package binning

// forEach visits every cell index tuple i with lo[k] <= i[k] < hi[k] for all
// axes k < dim, the last axis varying fastest. onAxis runs every time an
// axis index advances, outermost axis first, so per-axis state (such as a
// partially assembled cell-center coordinate) set for axis k stays valid for
// every tuple visited beneath it. onCell runs once per innermost tuple.
//
// The same traversal serves every dimensionality, so the deposition code
// never special-cases 2D against 3D.
func forEach(dim int, lo, hi [3]int, onAxis func(k, i int), onCell func(i [3]int)) {
	var idx [3]int
	var descend func(k int)
	descend = func(k int) {
		for i := lo[k]; i < hi[k]; i++ {
			idx[k] = i
			onAxis(k, i)
			if k == dim-1 {
				onCell(idx)
			} else {
				descend(k + 1)
			}
		}
	}
	descend(0)
}
