// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ident generates the identifiers used for websites, pages, and
// blocks. Identifiers are opaque strings; callers must not parse them.
package ident

import (
	"github.com/google/uuid"
)

// New returns a fresh identifier. It uses UUIDv7, which combines a
// millisecond timestamp and a monotonic sequence with random bits, so two
// calls in immediate succession never collide in practice.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source fails; a v4 still
		// gives a unique value in that case.
		return uuid.NewString()
	}
	return id.String()
}
