package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment builds an object key segment
func KeySegment(key string) Segment { return Segment{Key: key} }

// IndexSegment builds an array index segment
func IndexSegment(i int) Segment { return Segment{Index: i, IsIndex: true} }

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path is the sequence of segments from a document root to a value
type Path []Segment

var nonWordChar = regexp.MustCompile(`\W`)

// String renders the path with dot notation for word-only keys, bracketed
// quotes for any other key, and brackets for indices.
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		switch {
		case seg.IsIndex:
			b.WriteString("[" + strconv.Itoa(seg.Index) + "]")
		case nonWordChar.MatchString(seg.Key) || seg.Key == "":
			b.WriteString("[" + strconv.Quote(seg.Key) + "]")
		default:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.Key)
		}
	}
	return b.String()
}

// Strings returns the segments in their plain text form
func (p Path) Strings() []string {
	out := make([]string, len(p))
	for i, seg := range p {
		out[i] = seg.String()
	}
	return out
}
