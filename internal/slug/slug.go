// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and the page paths built from them.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// PagePath turns a page name into a site-relative path.
// Example: "About Us" → "/about-us". A name with no usable characters maps
// to the root path.
func PagePath(name string) string {
	return "/" + Generate(name)
}

// NormalizePath cleans a user-supplied page path: a single leading slash,
// no trailing slash, every segment slugged.
// Example: "Company//Our Team/" → "/company/our-team"
func NormalizePath(p string) string {
	var segments []string
	for _, seg := range strings.Split(p, "/") {
		if s := Generate(seg); s != "" {
			segments = append(segments, s)
		}
	}
	return "/" + strings.Join(segments, "/")
}

// Unique returns path, or path with the lowest numeric suffix ("-2", "-3"...)
// for which taken reports false.
func Unique(path string, taken func(string) bool) string {
	if !taken(path) {
		return path
	}
	base := strings.TrimRight(path, "/")
	if base == "" {
		base = "/page"
	}
	for i := 2; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
