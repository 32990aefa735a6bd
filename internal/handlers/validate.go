// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for website and page fields.
const (
	maxWebsiteNameLen = 200
	maxDomainLen      = 253
	maxPageNameLen    = 200
	maxPathLen        = 300
	maxColorLen       = 64
	maxFontLen        = 200
	maxLayoutSize     = 2 << 20
)

// validateWebsite checks website inputs and returns the first error found.
// A nil name is left alone, as in a partial update.
func validateWebsite(name, domain, dns *string) string {
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return "Website name is required."
		}
		if utf8.RuneCountInString(n) > maxWebsiteNameLen {
			return "Website name is too long (max 200 characters)."
		}
	}
	if domain != nil && utf8.RuneCountInString(*domain) > maxDomainLen {
		return "Domain is too long (max 253 characters)."
	}
	if dns != nil && utf8.RuneCountInString(*dns) > maxDomainLen {
		return "DNS name is too long (max 253 characters)."
	}
	return ""
}

// validateTheme checks theme values.
func validateTheme(colors []string, heading string) string {
	for _, c := range colors {
		if utf8.RuneCountInString(c) > maxColorLen {
			return "Color value is too long (max 64 characters)."
		}
	}
	if utf8.RuneCountInString(heading) > maxFontLen {
		return "Font value is too long (max 200 characters)."
	}
	return ""
}

// validatePage checks page inputs and returns the first error found.
func validatePage(name, path string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Page name is required."
	}
	if utf8.RuneCountInString(name) > maxPageNameLen {
		return "Page name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(path) > maxPathLen {
		return "Page path is too long (max 300 characters)."
	}
	return ""
}
