// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

// Tuple2 pairs two values, e.g. an item with something derived from it.
type Tuple2[V1, V2 any] struct {
	V1 V1
	V2 V2
}
