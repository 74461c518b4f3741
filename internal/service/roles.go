package service

import "strings"

// parseRoleList splits a comma-separated role string into labels.
// Entries are trimmed and empties dropped, so "a, ,b," yields [a b].
func parseRoleList(raw string) []string {
	parts := strings.Split(raw, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}
		roles = append(roles, label)
	}
	return roles
}

// partitionRoles splits submitted labels into those new to the catalog
// and those already present. Comparison is case-insensitive; the first
// casing seen wins, both against the catalog and within the submission.
func partitionRoles(existing, submitted []string) (added, duplicates []string) {
	seen := make(map[string]struct{}, len(existing)+len(submitted))
	for _, role := range existing {
		seen[strings.ToLower(role)] = struct{}{}
	}
	for _, role := range submitted {
		key := strings.ToLower(role)
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, role)
			continue
		}
		seen[key] = struct{}{}
		added = append(added, role)
	}
	return added, duplicates
}
