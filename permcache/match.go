package permcache

import "strings"

// Wildcard is the permission-code wildcard token, valid in either the
// resource or the action position (e.g. "users:*", "*:read", "*:*").
const Wildcard = "*"

// parsePermissionCode splits a permission code on its first colon, giving
// the resource and action halves. A code with no colon, or with either half
// empty (e.g. "users:" or ":read"), is invalid.
func parsePermissionCode(code string) (resource, action string, ok bool) {
	idx := strings.IndexByte(code, ':')
	if idx < 0 {
		return "", "", false
	}
	resource, action = code[:idx], code[idx+1:]
	if resource == "" || action == "" {
		return "", "", false
	}
	return resource, action, true
}

// Matches reports whether granted satisfies required, case-sensitively,
// under the four rules:
//
//  1. exact match (granted == required)
//  2. granted resource is "*", actions match
//  3. granted action is "*", resources match
//  4. granted is "*:*" (effective superuser)
func Matches(granted, required string) bool {
	if granted == required {
		return true
	}

	gResource, gAction, ok := parsePermissionCode(granted)
	if !ok {
		return false
	}
	rResource, rAction, ok := parsePermissionCode(required)
	if !ok {
		return false
	}

	resourceOK := gResource == Wildcard || gResource == rResource
	actionOK := gAction == Wildcard || gAction == rAction
	return resourceOK && actionOK
}

// AnyMatches reports whether required is matched by any code in granted.
func AnyMatches(granted []string, required string) bool {
	for _, g := range granted {
		if Matches(g, required) {
			return true
		}
	}
	return false
}

// AllMatch reports whether every code in required is matched by some code
// in granted. An empty required slice trivially matches.
func AllMatch(granted []string, required []string) bool {
	for _, r := range required {
		if !AnyMatches(granted, r) {
			return false
		}
	}
	return true
}
