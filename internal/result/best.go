package result

// PersonalBests reduces records to the fastest one per (distance, stroke,
// course) key.
//
// The first record seen for a key is kept until a record with a strictly
// faster parseable time arrives. A record whose time does not parse never
// replaces the current best, and an unparseable best is never replaced either.
// Output follows the order in which keys were first seen.
func PersonalBests(records []Record) []Record {
	best := make(map[Key]int)
	out := make([]Record, 0)

	for _, rec := range records {
		key := rec.Key()
		idx, seen := best[key]
		if !seen {
			best[key] = len(out)
			out = append(out, rec)
			continue
		}

		if faster(rec, out[idx]) {
			out[idx] = rec
		}
	}

	return out
}

// faster reports whether candidate beats current. Both times must parse.
func faster(candidate, current Record) bool {
	c, ok := candidate.Seconds()
	if !ok {
		return false
	}
	b, ok := current.Seconds()
	if !ok {
		return false
	}
	return c < b
}
