/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package query

import (
	"reflect"
	"strings"
)

/*
Predicate is a property test for ByProperty. Construct one with Equals,
Exists, StringContains or NumericCompare; the zero Predicate matches
nothing.
*/
type Predicate struct {
	kind    predicateKind
	value   interface{}
	substr  string
	op      CompareOp
	numeric float64
}

type predicateKind int

const (
	predicateNone predicateKind = iota
	predicateEquals
	predicateExists
	predicateContains
	predicateNumeric
)

/*
CompareOp is the comparison a NumericCompare predicate applies, with the
property value on the left.
*/
type CompareOp int

const (
	CompareLess CompareOp = iota
	CompareLessOrEqual
	CompareEqual
	CompareGreaterOrEqual
	CompareGreater
)

/*
Equals matches a property whose value deep-equals v. Numeric values
compare across the int64/float64 divide, so Equals(3) matches a property
stored as 3.0.
*/
func Equals(v interface{}) Predicate {
	return Predicate{kind: predicateEquals, value: v}
}

/*
Exists matches any node that has the property at all, whatever the value.
*/
func Exists() Predicate {
	return Predicate{kind: predicateExists}
}

/*
StringContains matches a string-valued property containing substr.
*/
func StringContains(substr string) Predicate {
	return Predicate{kind: predicateContains, substr: substr}
}

/*
NumericCompare matches a numeric property value v where "v op n" holds.
*/
func NumericCompare(op CompareOp, n float64) Predicate {
	return Predicate{kind: predicateNumeric, op: op, numeric: n}
}

func (p Predicate) matches(val interface{}, present bool) bool {
	if !present {
		return false
	}
	switch p.kind {
	case predicateExists:
		return true
	case predicateEquals:
		if a, aok := asFloat(val); aok {
			if b, bok := asFloat(p.value); bok {
				return a == b
			}
			return false
		}
		return reflect.DeepEqual(val, p.value)
	case predicateContains:
		s, ok := val.(string)
		return ok && strings.Contains(s, p.substr)
	case predicateNumeric:
		f, ok := asFloat(val)
		if !ok {
			return false
		}
		switch p.op {
		case CompareLess:
			return f < p.numeric
		case CompareLessOrEqual:
			return f <= p.numeric
		case CompareEqual:
			return f == p.numeric
		case CompareGreaterOrEqual:
			return f >= p.numeric
		case CompareGreater:
			return f > p.numeric
		}
	}
	return false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
