package deck

// CategoryStat is the roll-up for one category.
type CategoryStat struct {
	Count int `json:"count"`
	PT    int `json:"pt"`
}

// CategoryStats groups entries by category (NEUTRAL when unset).
func (r Rules) CategoryStats(entries []Entry) map[Category]CategoryStat {
	stats := make(map[Category]CategoryStat)
	for _, e := range entries {
		key := e.Card.Category.OrDefault()
		st := stats[key]
		st.Count += e.Quantity
		st.PT += r.CardBasePT(e.Card) * e.Quantity
		stats[key] = st
	}
	return stats
}
