package service

import (
	"strings"
	"unicode/utf8"
)

const MAX_TITLE_LENGTH = 255

func validateID(ids ...int64) error {
	for _, id := range ids {
		if id <= 0 {
			return ErrInvalidID
		}
	}
	return nil
}

// validateRequester allows 0 for anonymous reads.
func validateRequester(userID int64) error {
	if userID < 0 {
		return ErrInvalidID
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MAX_TITLE_LENGTH {
		return ErrTitleTooLong
	}
	return nil
}

// normalizeTags trims tags, drops empty ones and keeps the first occurrence of duplicates.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}
