package hex

// Ring returns the axial coordinates at exact distance k from center c,
// starting at the south-west corner (c + Directions[SouthWest]*k) and walking
// the six directions in order, k steps each.
// If k==0, returns [c].
func Ring(c Axial, k int) []Axial {
	if k == 0 {
		return []Axial{c}
	}
	res := make([]Axial, 0, 6*k)
	cur := c.Add(Directions[SouthWest].Mul(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			res = append(res, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return res
}

// Disk returns all coordinates at distance <= r from center c, ring by ring
// from the center outwards.
func Disk(c Axial, r int) []Axial {
	res := make([]Axial, 0, 1+3*r*(r+1))
	for k := 0; k <= r; k++ {
		res = append(res, Ring(c, k)...)
	}
	return res
}
