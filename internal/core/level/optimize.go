package level

import (
	"reflect"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/tileworld/internal/core/models"
)

// signature identifies what besides geometry decides mergeability: the
// concrete type of the current state and, for triggerable entities, the
// ordered concrete types of their triggers.
type signature struct {
	digest      uint64
	state       reflect.Type
	triggerable bool
	triggers    []reflect.Type
}

func signatureOf(e *models.Entity) signature {
	s := signature{triggerable: e.Triggerable()}

	d := xxhash.New()
	if st := e.CurrentState(); st != nil {
		s.state = reflect.TypeOf(st)
		_, _ = d.WriteString(s.state.String())
	}
	_, _ = d.WriteString("|")
	if s.triggerable {
		_, _ = d.WriteString("T")
		for _, t := range e.Triggers() {
			tt := reflect.TypeOf(t)
			s.triggers = append(s.triggers, tt)
			_, _ = d.WriteString(tt.String())
			_, _ = d.WriteString(",")
		}
	}
	s.digest = d.Sum64()
	return s
}

// compatible compares the digest first and confirms on the exact types, so
// a digest collision never merges unrelated entities.
func (s signature) compatible(o signature) bool {
	if s.digest != o.digest || s.state != o.state || s.triggerable != o.triggerable {
		return false
	}
	if !s.triggerable {
		return true
	}
	if len(s.triggers) != len(o.triggers) {
		return false
	}
	for i := range s.triggers {
		if s.triggers[i] != o.triggers[i] {
			return false
		}
	}
	return true
}

type column struct {
	entity *models.Entity
	sig    signature
}

// Optimize merges vertically adjacent entities of equal width and X position
// that share state and trigger types, and returns how many entities were
// merged away.
//
// Entities are visited in list order and bucketed by their integer-truncated
// X. An entity that touches an earlier bucket entry along a horizontal edge
// is folded into that entry: the entry grows by the entity's height and, when
// the entity lies above it, moves up to the entity's position. The first
// matching entry wins. Entities that merge nowhere become bucket entries
// themselves. Merged results are not re-examined, so one pass over
// scan-ordered geometry yields full columns and a second pass changes nothing.
func (l *Level) Optimize() int {
	buckets := make(map[int][]column)
	merged := make(map[*models.Entity]struct{})

	for _, obj := range l.objects {
		key := int(obj.X())
		sig := signatureOf(obj)

		if mergeInto(buckets[key], obj, sig) {
			merged[obj] = struct{}{}
			continue
		}
		buckets[key] = append(buckets[key], column{entity: obj, sig: sig})
	}

	if len(merged) == 0 {
		return 0
	}

	kept := l.objects[:0]
	for _, obj := range l.objects {
		if _, ok := merged[obj]; !ok {
			kept = append(kept, obj)
		}
	}
	clear(l.objects[len(kept):])
	l.objects = kept

	return len(merged)
}

func mergeInto(bucket []column, obj *models.Entity, sig signature) bool {
	for _, c := range bucket {
		inMap := c.entity
		if inMap.Width() != obj.Width() || !c.sig.compatible(sig) {
			continue
		}

		switch {
		case inMap.Y()+inMap.Height() == obj.Y():
			inMap.SetHeight(inMap.Height() + obj.Height())
			return true
		case obj.Y()+obj.Height() == inMap.Y():
			inMap.SetHeight(inMap.Height() + obj.Height())
			inMap.SetPosition(obj.Position())
			return true
		}
	}
	return false
}
