// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import "golang.org/x/sys/unix"

// unix.FdSet has no FD_SET/FD_CLR/FD_ISSET helpers of its own; these mirror
// the C macros over its fixed Bits array.
const fdSetBitsPerWord = 64

func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/fdSetBitsPerWord] |= 1 << (uint(fd) % fdSetBitsPerWord)
}

func fdIsSet(set *unix.FdSet, fd int) bool {
	return set.Bits[fd/fdSetBitsPerWord]&(1<<(uint(fd)%fdSetBitsPerWord)) != 0
}

func fdHighest(set *unix.FdSet) int {
	highest := -1
	for word := len(set.Bits) - 1; word >= 0; word-- {
		if set.Bits[word] == 0 {
			continue
		}
		for bit := fdSetBitsPerWord - 1; bit >= 0; bit-- {
			if set.Bits[word]&(1<<uint(bit)) != 0 {
				return word*fdSetBitsPerWord + bit
			}
		}
	}
	return highest
}
