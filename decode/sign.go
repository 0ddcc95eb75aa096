// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package decode

import "math"

// signExtend treats v as a two's-complement integer of the given bit width
// and replicates its sign bit (bit width-1) into bits width..31, producing
// the equivalent 32-bit value. Every format decoder (I, S, B, J) shares this
// single helper instead of repeating the replication per format.
func signExtend(v uint32, width int) uint32 {
	b := signWidths[width]
	if v&b.signBit != 0 {
		return v | b.ones
	}
	return v
}

var signWidths [33]struct {
	signBit uint32
	ones    uint32
}

func init() {
	for width := 1; width <= 32; width++ {
		signWidths[width].signBit = uint32(1) << (width - 1)
		if width == 32 {
			signWidths[width].ones = 0
		} else {
			signWidths[width].ones = uint32(math.MaxUint32) << width
		}
	}
}
