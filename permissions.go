package auth

import "strings"

// IsAdminPermissionSet reports whether a permission set grants admin access.
func IsAdminPermissionSet(tags []string) bool {
	return hasPermissionTag(tags, PermissionAdmin)
}

func hasPermissionTag(tags []string, tag Permission) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func removePermissionTag(tags []string, tag Permission) []string {
	out := tags[:0]
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

// NormalizePermission trims and lowercases a permission tag so grants and
// checks agree on a canonical form.
func NormalizePermission(tag string) Permission {
	return strings.ToLower(strings.TrimSpace(tag))
}
