// Package types implements the semantic analyzer: registration, global and
// top-level analysis, per-function body analysis, expression inference,
// type compatibility, bounds checking, and the two-phase mutation checker
// described by spec §4.3.
package types

import "math/big"

// IntegerTypes lists the ten integer type names in the order used to infer
// the smallest type containing a non-negative literal's magnitude.
var IntegerTypes = []string{"i8", "u8", "i16", "u16", "i32", "u32", "i64", "u64", "i128", "u128"}

// bitSize maps every scalar type name (including bool) to its width in
// bits, the quantity wider_type compares.
var bitSize = map[string]int{
	"bool": 8,
	"i8":   8, "u8": 8,
	"i16": 16, "u16": 16,
	"i32": 32, "u32": 32,
	"i64": 64, "u64": 64,
	"i128": 128, "u128": 128,
}

var signedness = map[string]bool{
	"i8": true, "u8": false,
	"i16": true, "u16": false,
	"i32": true, "u32": false,
	"i64": true, "u64": false,
	"i128": true, "u128": false,
}

// IsIntegerType reports whether name is one of the ten built-in integer
// types.
func IsIntegerType(name string) bool {
	_, ok := signedness[name]
	return ok
}

// IsSigned reports whether an integer type name is signed. Callers must
// only pass names for which IsIntegerType is true.
func IsSigned(name string) bool {
	return signedness[name]
}

// BitSize returns the bit width of a scalar type name, or 0 if unknown.
func BitSize(name string) int {
	return bitSize[name]
}

// WiderType implements spec §4.3.5's arithmetic/if/when/for promotion rule:
// the operand with the larger bit width wins; ties are broken in favor of
// the signed operand. Commutative, associative, and monotone in bit width
// by construction.
func WiderType(a, b string) string {
	if a == b {
		return a
	}
	sa, sb := bitSize[a], bitSize[b]
	if sa != sb {
		if sa > sb {
			return a
		}
		return b
	}
	// Equal width, different names: prefer the signed side when one exists.
	aSigned, aIsInt := signedness[a]
	bSigned, bIsInt := signedness[b]
	switch {
	case aIsInt && bIsInt:
		if aSigned && !bSigned {
			return a
		}
		if bSigned && !aSigned {
			return b
		}
		return a
	case aIsInt:
		return a
	case bIsInt:
		return b
	default:
		return a
	}
}

// CanWiden reports whether an implicit widening conversion from `from` to
// `to` is safe: same signedness, strictly larger bit width. This is exactly
// the edge set spec §4.3.6 enumerates (i8->i16, ..., u64->u128); signedness
// is never crossed by widening.
func CanWiden(from, to string) bool {
	if !IsIntegerType(from) || !IsIntegerType(to) {
		return false
	}
	if IsSigned(from) != IsSigned(to) {
		return false
	}
	return bitSize[to] > bitSize[from]
}

// CompatibleTypes reports spec §4.3.6's compatibility relation: identical
// names, or any pair of the ten integer types.
func CompatibleTypes(a, b string) bool {
	if a == b {
		return true
	}
	return IsIntegerType(a) && IsIntegerType(b)
}

// MaxUnsigned returns the inclusive maximum magnitude representable by an
// unsigned integer type of the given bit width.
func MaxUnsigned(bits int) *big.Int {
	n := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return n.Sub(n, big.NewInt(1))
}

// MaxSigned returns the inclusive maximum value representable by a signed
// integer type of the given bit width.
func MaxSigned(bits int) *big.Int {
	n := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	return n.Sub(n, big.NewInt(1))
}

// MinSignedMagnitude returns the magnitude of the most negative value
// representable by a signed integer type of the given bit width (i.e.
// -MIN(T), so a negated literal magnitude can be compared against it
// directly).
func MinSignedMagnitude(bits int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
}

// MaxOf returns the inclusive maximum magnitude an integer type's literal
// may carry, per spec §4.3.7 ("treating T's maximum as i*::MAX for signed,
// u*::MAX for unsigned, bool accepts 0|1").
func MaxOf(typeName string) *big.Int {
	if typeName == "bool" {
		return big.NewInt(1)
	}
	bits := bitSize[typeName]
	if IsSigned(typeName) {
		return MaxSigned(bits)
	}
	return MaxUnsigned(bits)
}

// SmallestFitting returns the narrowest of the ten integer types (in
// IntegerTypes order) whose maximum is >= v, implementing spec §4.3.5 and
// §8 property 3's literal-typing rule. It panics if v exceeds u128::MAX,
// which the lexer already rules out for any literal it accepts.
func SmallestFitting(v *big.Int) string {
	for _, t := range IntegerTypes {
		if v.Cmp(MaxOf(t)) <= 0 {
			return t
		}
	}
	panic("types: magnitude exceeds u128::MAX; lexer should have rejected it")
}
