// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// a specialised timestamp to index data collections
//
// consists of:
//   seconds (int64)    -> the UTC unix time
//   nano seconds (int32) -> fractional time [0 .. 999,999,999]
//
// Note that when advancing past 999,999,999 nano seconds the value
// wraps to zero and the carry is propagated into the seconds.
package gnomon
