package deck

// CardBasePT returns the PT value of one copy of c.
//
// Resolution order: CachedPT, then the category formula (base + modifier
// surcharges), then the flat PTValue for categories the table cannot price,
// then DefaultPT. The result is never negative.
func (r Rules) CardBasePT(c Card) int {
	if c.CachedPT != nil {
		return max(*c.CachedPT, 0)
	}

	if !c.Category.Known() {
		if c.PTValue != nil {
			return max(*c.PTValue, 0)
		}
		return r.DefaultPT
	}

	pt := r.DefaultPT
	if c.Category == CategoryMonster {
		pt = r.MonsterPT
	}
	if c.IsGlimmer() {
		pt += r.GlimmerBonus
	}
	if c.IsDivineGlimmer() {
		pt += r.DivineGlimmerBonus
	}
	return pt
}

// AcquisitionCost sums base PT times quantity over all entries.
func (r Rules) AcquisitionCost(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += r.CardBasePT(e.Card) * e.Quantity
	}
	return total
}

// EscalatingCost prices n cumulative events of one kind. The first event is
// free; event i+1 costs step(i) for i >= 1.
func (r Rules) EscalatingCost(n int) int {
	total := 0
	for i := 1; i < n; i++ {
		total += r.step(i)
	}
	return total
}

func (r Rules) step(i int) int {
	if len(r.EscalationSteps) == 0 {
		return 0
	}
	if i > len(r.EscalationSteps) {
		return r.EscalationSteps[len(r.EscalationSteps)-1]
	}
	return r.EscalationSteps[i-1]
}

// RemovalCost prices the removal-token economy.
func (r Rules) RemovalCost(m Metadata) int {
	return r.EscalatingCost(m.RemoveCount) + m.StartCardRemoveCount*r.StartCardRemovalSurcharge
}

// DuplicationCost prices the duplication economy.
func (r Rules) DuplicationCost(m Metadata) int {
	return r.EscalatingCost(m.DuplicateCount) + m.DivineGlimmerDuplicateCount*r.DivineGlimmerDuplicateSurcharge
}

// TotalCost is acquisition + removal + duplication.
func (r Rules) TotalCost(entries []Entry, m Metadata) int {
	return r.AcquisitionCost(entries) + r.RemovalCost(m) + r.DuplicationCost(m)
}
