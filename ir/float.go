// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import (
	"math/big"
)

// ieeeLayout is the bit layout of an interchange floating point format.
type ieeeLayout struct {
	expBits  uint
	mantBits uint
}

// layoutOf returns the bit layout of a semantics. The x87 extended and
// quad formats are not interchange formats handled here: bit level
// reinterpretation of their values is not supported.
func layoutOf(sem FloatSemantics) (ieeeLayout, bool) {
	switch sem {
	case BF16:
		return ieeeLayout{expBits: 8, mantBits: 7}, true
	case F16:
		return ieeeLayout{expBits: 5, mantBits: 10}, true
	case F32:
		return ieeeLayout{expBits: 8, mantBits: 23}, true
	case F64:
		return ieeeLayout{expBits: 11, mantBits: 52}, true
	}
	return ieeeLayout{}, false
}

func (l ieeeLayout) bias() int { return int(1<<(l.expBits-1)) - 1 }

func (l ieeeLayout) maxBiasedExp() int { return int(1<<l.expBits) - 1 }

// rshRoundEven shifts right rounding half to even.
func rshRoundEven(x *big.Int, shift uint) *big.Int {
	if shift == 0 {
		return new(big.Int).Set(x)
	}
	q := new(big.Int).Rsh(x, shift)
	rem := truncToWidth(x, shift)
	half := new(big.Int).Lsh(one, shift-1)
	switch rem.Cmp(half) {
	case 1:
		q.Add(q, one)
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, one)
		}
	}
	return q
}

// FloatBits returns the bit pattern of a float attribute as an
// unsigned integer of the width of its semantics. It returns false for
// formats whose bit layout is not supported.
func FloatBits(a FloatAttr) (*big.Int, bool) {
	layout, ok := layoutOf(a.typ.Sem)
	if !ok {
		return nil, false
	}
	width := a.typ.Sem.Width()
	signBit := new(big.Int)
	expAllOnes := new(big.Int).SetInt64(int64(layout.maxBiasedExp()))
	if a.nan {
		// Canonical quiet NaN: exponent all ones, top mantissa bit set.
		bits := new(big.Int).Lsh(expAllOnes, layout.mantBits)
		quiet := new(big.Int).Lsh(one, layout.mantBits-1)
		return bits.Or(bits, quiet), true
	}
	if a.val.Signbit() {
		signBit.Lsh(one, width-1)
	}
	if a.val.IsInf() {
		bits := new(big.Int).Lsh(expAllOnes, layout.mantBits)
		return bits.Or(bits, signBit), true
	}
	if a.val.Sign() == 0 {
		return signBit, true
	}
	mant := new(big.Float)
	exp := a.val.MantExp(mant)
	prec := layout.mantBits + 1
	// Integer significand in [2^mantBits, 2^(mantBits+1)).
	sigF := new(big.Float).SetPrec(prec + 2).Abs(mant)
	sigF.SetMantExp(sigF, int(prec))
	sig, _ := sigF.Int(nil)
	biased := exp - 1 + layout.bias()
	if biased <= 0 {
		// Subnormal range: shift the significand below the implicit bit.
		shift := uint(1 - biased)
		if shift > prec+1 {
			return signBit, true
		}
		sig = rshRoundEven(sig, shift)
		if sig.BitLen() > int(layout.mantBits) {
			// Rounded back up into the smallest normal.
			biased = 1
			sig = new(big.Int).Lsh(one, layout.mantBits)
		} else {
			biased = 0
		}
	}
	for sig.BitLen() > int(prec) {
		sig = rshRoundEven(sig, 1)
		biased++
	}
	if biased >= layout.maxBiasedExp() {
		bits := new(big.Int).Lsh(expAllOnes, layout.mantBits)
		return bits.Or(bits, signBit), true
	}
	bits := new(big.Int).Lsh(big.NewInt(int64(biased)), layout.mantBits)
	bits.Or(bits, truncToWidth(sig, layout.mantBits))
	return bits.Or(bits, signBit), true
}

// FloatFromBits builds a float attribute from a bit pattern.
// It returns false for formats whose bit layout is not supported.
func FloatFromBits(typ FloatType, bits *big.Int) (FloatAttr, bool) {
	layout, ok := layoutOf(typ.Sem)
	if !ok {
		return FloatAttr{}, false
	}
	width := typ.Sem.Width()
	bits = truncToWidth(bits, width)
	neg := bits.Bit(int(width-1)) == 1
	biased := new(big.Int).Rsh(bits, layout.mantBits)
	biased = truncToWidth(biased, layout.expBits)
	mant := truncToWidth(bits, layout.mantBits)
	exp := int(biased.Int64())
	if exp == layout.maxBiasedExp() {
		if mant.Sign() != 0 {
			return NaN(typ), true
		}
		inf := new(big.Float).SetInf(neg)
		return FloatAttr{typ: typ, val: inf}, true
	}
	var sig *big.Int
	if exp == 0 {
		sig = mant
		exp = 1
	} else {
		sig = new(big.Int).Lsh(one, layout.mantBits)
		sig.Or(sig, mant)
	}
	val := new(big.Float).SetPrec(layout.mantBits + 1).SetInt(sig)
	val.SetMantExp(val, exp-layout.bias()-int(layout.mantBits))
	if neg {
		val.Neg(val)
	}
	return FloatAttr{typ: typ, val: val}, true
}
