package registry

// SelectCanonical picks the one record to index from all published versions
// of the same server. Preference order:
//
//  1. a record the upstream explicitly flags as latest
//  2. the highest version by CompareVersions
//  3. the most recent publication timestamp
//
// Later listings win ties so re-published records supersede earlier ones.
// Returns the zero Record when records is empty.
func SelectCanonical(records []Record) Record {
	if len(records) == 0 {
		return Record{}
	}

	best := records[0]
	for _, candidate := range records[1:] {
		if preferable(candidate, best) {
			best = candidate
		}
	}
	return best
}

func preferable(candidate, current Record) bool {
	cFlag := candidate.HasLatestFlag() && candidate.IsLatest()
	bFlag := current.HasLatestFlag() && current.IsLatest()
	if cFlag != bFlag {
		return cFlag
	}

	if cmp := CompareVersions(candidate.Version(), current.Version()); cmp != 0 {
		return cmp > 0
	}

	return !candidate.PublishedAt().Before(current.PublishedAt())
}
