package entities

import (
	"regexp"
	"strings"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)

// ExtractHashtags returns the lowercase, deduplicated hashtags in text, in
// order of first appearance
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return NormalizeTags(tags)
}

// NormalizeTag lowercases and trims a tag, dropping a leading '#'
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "#")
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag, drops empties and duplicates, and
// keeps first-seen order. A nil input yields an empty, non-nil slice.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		n := NormalizeTag(tag)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// MergeTags concatenates tag lists and normalizes the result
func MergeTags(lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	return NormalizeTags(all)
}
