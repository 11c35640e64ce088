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

package arith

import (
	"github.com/mlir-go/mlir/ir/interval"
)

const (
	pureBinaryInt   = TraitPure | TraitSameType
	pureBinaryFloat = TraitPure | TraitSameType | TraitFastMath
)

// opInfos is the dispatch table of the dialect, indexed by OpKind.
// It is populated in init: canonicalization patterns build
// operations through Mnemonic, which reads the table back, so a
// composite literal initializer would form an initialization cycle.
var opInfos [opMax]opInfo

func init() {
	opInfos = buildOpInfos()
	for kind := OpConstant; kind < opMax; kind++ {
		mnemonics.Store(opInfos[kind].mnemonic, kind)
	}
}

func buildOpInfos() [opMax]opInfo {
	return [opMax]opInfo{
		OpConstant: {
			mnemonic:   "arith.constant",
			results:    1,
			traits:     TraitPure | TraitConstantLike,
			format:     formatConstant,
			verify:     verifyConstant,
			fold:       foldConstant,
			inferRange: rangeConstant,
		},

		OpAddI: {
			mnemonic:   "arith.addi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldAddI,
			inferRange: rangeBinary(interval.Add),
			patterns:   []Pattern{patternCommuteConstLeft, patternAddNegConstToSub},
		},
		OpSubI: {
			mnemonic:   "arith.subi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldSubI,
			inferRange: rangeBinary(interval.Sub),
			patterns:   []Pattern{patternSubOfAddConst, patternSubConstOfAdd},
		},
		OpMulI: {
			mnemonic:   "arith.muli",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldMulI,
			inferRange: rangeBinary(interval.Mul),
			patterns:   []Pattern{patternCommuteConstLeft, patternMulPow2ToShift},
		},
		OpDivUI: {
			mnemonic:   "arith.divui",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitSpeculatableIf,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldDivUI,
			inferRange: rangeBinary(interval.DivU),
		},
		OpDivSI: {
			mnemonic:   "arith.divsi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitSpeculatableIf,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldDivSI,
			inferRange: rangeBinary(interval.DivS),
		},
		OpCeilDivUI: {
			mnemonic:   "arith.ceildivui",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitSpeculatableIf,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldCeilDivUI,
			inferRange: rangeBinary(interval.CeilDivU),
		},
		OpCeilDivSI: {
			mnemonic:   "arith.ceildivsi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitSpeculatableIf,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldCeilDivSI,
			inferRange: rangeBinary(interval.CeilDivS),
		},
		OpFloorDivSI: {
			mnemonic:   "arith.floordivsi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitSpeculatableIf,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldFloorDivSI,
			inferRange: rangeBinary(interval.FloorDivS),
		},
		OpRemUI: {
			mnemonic:   "arith.remui",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitSpeculatableIf,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldRemUI,
			inferRange: rangeBinary(interval.RemU),
		},
		OpRemSI: {
			mnemonic:   "arith.remsi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitSpeculatableIf,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldRemSI,
			inferRange: rangeBinary(interval.RemS),
		},
		OpAndI: {
			mnemonic:   "arith.andi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative | TraitIdempotent,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldAndI,
			inferRange: rangeBinary(interval.And),
			patterns:   []Pattern{patternCommuteConstLeft, patternDeMorgan(OpOrI)},
		},
		OpOrI: {
			mnemonic:   "arith.ori",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative | TraitIdempotent,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldOrI,
			inferRange: rangeBinary(interval.Or),
			patterns:   []Pattern{patternCommuteConstLeft, patternDeMorgan(OpAndI)},
		},
		OpXOrI: {
			mnemonic:   "arith.xori",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldXOrI,
			inferRange: rangeBinary(interval.Xor),
			patterns:   []Pattern{patternCommuteConstLeft, patternDoubleNot},
		},
		OpShLI: {
			mnemonic:   "arith.shli",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldShLI,
			inferRange: rangeBinary(interval.ShL),
		},
		OpShRUI: {
			mnemonic:   "arith.shrui",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldShRUI,
			inferRange: rangeBinary(interval.ShRU),
		},
		OpShRSI: {
			mnemonic:   "arith.shrsi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldShRSI,
			inferRange: rangeBinary(interval.ShRS),
		},
		OpMaxSI: {
			mnemonic:   "arith.maxsi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative | TraitIdempotent,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldMinMax(true, true),
			inferRange: rangeBinary(interval.MaxS),
			patterns:   []Pattern{patternCommuteConstLeft},
		},
		OpMaxUI: {
			mnemonic:   "arith.maxui",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative | TraitIdempotent,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldMinMax(false, true),
			inferRange: rangeBinary(interval.MaxU),
			patterns:   []Pattern{patternCommuteConstLeft},
		},
		OpMinSI: {
			mnemonic:   "arith.minsi",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative | TraitIdempotent,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldMinMax(true, false),
			inferRange: rangeBinary(interval.MinS),
			patterns:   []Pattern{patternCommuteConstLeft},
		},
		OpMinUI: {
			mnemonic:   "arith.minui",
			operands:   2,
			results:    1,
			traits:     pureBinaryInt | TraitCommutative | TraitIdempotent,
			format:     formatBinary,
			verify:     verifyIntArith,
			fold:       foldMinMax(false, false),
			inferRange: rangeBinary(interval.MinU),
			patterns:   []Pattern{patternCommuteConstLeft},
		},

		OpAddUIExtended: {
			mnemonic:   "arith.addui_extended",
			operands:   2,
			results:    2,
			traits:     TraitPure | TraitCommutative,
			format:     formatAddExtended,
			verify:     verifyAddExtended,
			fold:       foldAddUIExtended,
			inferRange: rangeAddUIExtended,
			patterns:   []Pattern{patternAddExtendedDeadOverflow},
		},
		OpMulSIExtended: {
			mnemonic:   "arith.mulsi_extended",
			operands:   2,
			results:    2,
			traits:     TraitPure | TraitCommutative,
			format:     formatMulExtended,
			verify:     verifyMulExtended,
			fold:       foldMulExtended(true),
			inferRange: rangeMulExtended(true),
			patterns:   []Pattern{patternMulExtendedDeadHigh},
		},
		OpMulUIExtended: {
			mnemonic:   "arith.mului_extended",
			operands:   2,
			results:    2,
			traits:     TraitPure | TraitCommutative,
			format:     formatMulExtended,
			verify:     verifyMulExtended,
			fold:       foldMulExtended(false),
			inferRange: rangeMulExtended(false),
			patterns:   []Pattern{patternMulExtendedDeadHigh},
		},

		OpNegF: {
			mnemonic: "arith.negf",
			operands: 1,
			results:  1,
			traits:   TraitPure | TraitSameType | TraitFastMath,
			format:   formatUnary,
			verify:   verifyFloatArith,
			fold:     foldNegF,
			patterns: []Pattern{patternNegFChain},
		},
		OpAddF: {
			mnemonic: "arith.addf",
			operands: 2,
			results:  1,
			traits:   pureBinaryFloat | TraitCommutative,
			format:   formatBinary,
			verify:   verifyFloatArith,
			fold:     foldAddF,
			patterns: []Pattern{patternCommuteConstLeft, patternFloatReassoc(OpAddF)},
		},
		OpSubF: {
			mnemonic: "arith.subf",
			operands: 2,
			results:  1,
			traits:   pureBinaryFloat,
			format:   formatBinary,
			verify:   verifyFloatArith,
			fold:     foldSubF,
		},
		OpMulF: {
			mnemonic: "arith.mulf",
			operands: 2,
			results:  1,
			traits:   pureBinaryFloat | TraitCommutative,
			format:   formatBinary,
			verify:   verifyFloatArith,
			fold:     foldMulF,
			patterns: []Pattern{patternCommuteConstLeft, patternFloatReassoc(OpMulF)},
		},
		OpDivF: {
			mnemonic: "arith.divf",
			operands: 2,
			results:  1,
			traits:   pureBinaryFloat,
			format:   formatBinary,
			verify:   verifyFloatArith,
			fold:     foldDivF,
			patterns: []Pattern{patternDivToReciprocal},
		},
		OpRemF: {
			mnemonic: "arith.remf",
			operands: 2,
			results:  1,
			traits:   pureBinaryFloat,
			format:   formatBinary,
			verify:   verifyFloatArith,
			fold:     foldRemF,
		},
		OpMaxF: {
			mnemonic: "arith.maxf",
			operands: 2,
			results:  1,
			traits:   pureBinaryFloat | TraitCommutative | TraitIdempotent,
			format:   formatBinary,
			verify:   verifyFloatArith,
			fold:     foldMinMaxF(true),
			patterns: []Pattern{patternCommuteConstLeft},
		},
		OpMinF: {
			mnemonic: "arith.minf",
			operands: 2,
			results:  1,
			traits:   pureBinaryFloat | TraitCommutative | TraitIdempotent,
			format:   formatBinary,
			verify:   verifyFloatArith,
			fold:     foldMinMaxF(false),
			patterns: []Pattern{patternCommuteConstLeft},
		},

		OpExtUI: {
			mnemonic:   "arith.extui",
			operands:   1,
			results:    1,
			traits:     TraitPure | TraitSameShape,
			format:     formatCast,
			verify:     verifyIntCast(true),
			fold:       foldExtUI,
			inferRange: rangeExt(false),
			patterns:   []Pattern{patternExtChain(OpExtUI)},
		},
		OpExtSI: {
			mnemonic:   "arith.extsi",
			operands:   1,
			results:    1,
			traits:     TraitPure | TraitSameShape,
			format:     formatCast,
			verify:     verifyIntCast(true),
			fold:       foldExtSI,
			inferRange: rangeExt(true),
			patterns:   []Pattern{patternExtChain(OpExtSI), patternExtChain(OpExtUI)},
		},
		OpTruncI: {
			mnemonic:   "arith.trunci",
			operands:   1,
			results:    1,
			traits:     TraitPure | TraitSameShape,
			format:     formatCast,
			verify:     verifyIntCast(false),
			fold:       foldTruncI,
			inferRange: rangeTrunc,
			patterns: []Pattern{
				patternTruncOfExt(OpExtSI), patternTruncOfExt(OpExtUI), patternTruncChain,
			},
		},
		OpExtF: {
			mnemonic: "arith.extf",
			operands: 1,
			results:  1,
			traits:   TraitPure | TraitSameShape,
			format:   formatCast,
			verify:   verifyFloatCast(true),
			fold:     foldFloatCast,
		},
		OpTruncF: {
			mnemonic: "arith.truncf",
			operands: 1,
			results:  1,
			traits:   TraitPure | TraitSameShape,
			format:   formatCast,
			verify:   verifyFloatCast(false),
			fold:     foldFloatCast,
		},
		OpUIToFP: {
			mnemonic: "arith.uitofp",
			operands: 1,
			results:  1,
			traits:   TraitPure | TraitSameShape,
			format:   formatCast,
			verify:   verifyIntToFloat,
			fold:     foldIntToFloat(false),
		},
		OpSIToFP: {
			mnemonic: "arith.sitofp",
			operands: 1,
			results:  1,
			traits:   TraitPure | TraitSameShape,
			format:   formatCast,
			verify:   verifyIntToFloat,
			fold:     foldIntToFloat(true),
		},
		OpFPToUI: {
			mnemonic: "arith.fptoui",
			operands: 1,
			results:  1,
			traits:   TraitPure | TraitSameShape,
			format:   formatCast,
			verify:   verifyFloatToInt,
			fold:     foldFloatToInt(false),
		},
		OpFPToSI: {
			mnemonic: "arith.fptosi",
			operands: 1,
			results:  1,
			traits:   TraitPure | TraitSameShape,
			format:   formatCast,
			verify:   verifyFloatToInt,
			fold:     foldFloatToInt(true),
		},
		OpIndexCast: {
			mnemonic:   "arith.index_cast",
			operands:   1,
			results:    1,
			traits:     TraitPure | TraitSameShape,
			format:     formatCast,
			verify:     verifyIndexCast,
			fold:       foldIndexCast(true),
			inferRange: rangeIndexCast(true),
			patterns:   []Pattern{patternIndexCastChain(OpIndexCast)},
		},
		OpIndexCastUI: {
			mnemonic:   "arith.index_castui",
			operands:   1,
			results:    1,
			traits:     TraitPure | TraitSameShape,
			format:     formatCast,
			verify:     verifyIndexCast,
			fold:       foldIndexCast(false),
			inferRange: rangeIndexCast(false),
			patterns:   []Pattern{patternIndexCastChain(OpIndexCastUI)},
		},
		OpBitcast: {
			mnemonic: "arith.bitcast",
			operands: 1,
			results:  1,
			traits:   TraitPure | TraitSameShape,
			format:   formatCast,
			verify:   verifyBitcast,
			fold:     foldBitcast,
			patterns: []Pattern{patternBitcastChain},
		},

		OpCmpI: {
			mnemonic:   "arith.cmpi",
			operands:   2,
			results:    1,
			traits:     TraitPure | TraitSameShape,
			format:     formatCompare,
			verify:     verifyCmp(SignlessIntegerLike, "signless integer like", uint64(numCmpIPredicates)),
			fold:       foldCmpI,
			inferRange: rangeCmpI,
			patterns: []Pattern{
				patternCmpIConstLeft, patternCmpIStrengthReduce, patternCmpIOfBool,
			},
		},
		OpCmpF: {
			mnemonic: "arith.cmpf",
			operands: 2,
			results:  1,
			traits:   TraitPure | TraitSameShape | TraitFastMath,
			format:   formatCompare,
			verify:   verifyCmp(FloatLike, "float like", uint64(numCmpFPredicates)),
			fold:     foldCmpF,
		},

		OpSelect: {
			mnemonic:   "arith.select",
			operands:   3,
			results:    1,
			traits:     TraitPure | TraitSameShape,
			format:     formatSelect,
			verify:     verifySelect,
			fold:       foldSelect,
			inferRange: rangeSelect,
			patterns: []Pattern{
				patternSelectNotCond, patternSelectToLogic, patternSelectOfCmp,
			},
		},
	}
}
