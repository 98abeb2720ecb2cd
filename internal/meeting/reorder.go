package meeting

import (
	"regexp"
	"sort"
	"strconv"
)

// orderToken matches a single id ("3") or an inclusive range ("1-3").
var orderToken = regexp.MustCompile(`(\d+)(?:\s*-\s*(\d+))?`)

// expandOrderSpec turns a free-form order specification into the ids it
// names, in the order named. Single ids are returned as written; a range
// expands to the members of known (sorted ascending) that fall inside it, so
// a wide range costs no more than the agenda it covers. Descending ranges and
// unparsable numbers name nothing. Duplicates are kept.
func expandOrderSpec(spec string, known []int) []int {
	var ids []int
	for _, m := range orderToken.FindAllStringSubmatch(spec, -1) {
		lo, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if m[2] == "" {
			ids = append(ids, lo)
			continue
		}
		hi, err := strconv.Atoi(m[2])
		if err != nil || hi < lo {
			continue
		}
		for i := sort.SearchInts(known, lo); i < len(known) && known[i] <= hi; i++ {
			ids = append(ids, known[i])
		}
	}
	return ids
}

// ReorderAgenda moves the items named by spec to the front, in the order
// named, pushing the rest down. It works by swapping each named item into the
// next unfilled position, so an id repeated in spec is moved again and
// displaces whatever had been placed before it.
func (s *Store) ReorderAgenda(spec string) Section {
	known := s.Order()
	sort.Ints(known)

	next := 0
	for _, n := range expandOrderSpec(spec, known) {
		if next >= len(s.order) {
			break
		}
		if !s.validAgendum(n) {
			continue
		}
		j, ok := s.pos[n]
		if !ok {
			continue
		}
		s.order[next], s.order[j] = s.order[j], s.order[next]
		s.pos[s.order[next]] = next
		s.pos[s.order[j]] = j
		next++
	}
	if next == 0 {
		return SectionNone
	}
	return SectionAgenda
}
