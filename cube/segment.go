package cube

import (
	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/dict"
)

// Segment gives access to the dictionaries and lookup tables of one cube
// segment. Both are fully loaded into memory before query execution and are
// read-only afterwards, so a Segment can be shared across plan instances.
type Segment struct {
	desc    *CubeDesc
	dicts   map[common.ColRef]dict.Dictionary
	lookups map[string]*dict.LookupTable
}

func NewSegment(desc *CubeDesc) *Segment {
	return &Segment{
		desc:    desc,
		dicts:   make(map[common.ColRef]dict.Dictionary),
		lookups: make(map[string]*dict.LookupTable),
	}
}

func (s *Segment) Desc() *CubeDesc {
	return s.desc
}

func (s *Segment) SetDictionary(col common.ColRef, d dict.Dictionary) {
	s.dicts[col] = d
}

func (s *Segment) Dictionary(col common.ColRef) dict.Dictionary {
	return s.dicts[col]
}

func (s *Segment) SetLookupTable(tableName string, t *dict.LookupTable) {
	s.lookups[tableName] = t
}

func (s *Segment) LookupTable(tableName string) *dict.LookupTable {
	return s.lookups[tableName]
}
