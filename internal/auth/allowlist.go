package auth

import (
	"net/http"
	"strconv"
	"strings"
)

// AllowList is the static set of admin user IDs. Inventory mutations are
// gated by membership only; there is no further credential check.
type AllowList map[int64]struct{}

// ParseAllowList builds an AllowList from a comma-separated list of IDs,
// as found in the ADMIN_IDS environment variable. Malformed entries are
// skipped.
func ParseAllowList(s string) AllowList {
	list := AllowList{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		list[id] = struct{}{}
	}
	return list
}

func (a AllowList) IsAdmin(userID int64) bool {
	_, ok := a[userID]
	return ok
}

// AdminAuthMiddleware rejects requests whose X-User-ID header is missing,
// malformed, or not on the allow-list.
func AdminAuthMiddleware(allow AllowList) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
			if err != nil || !allow.IsAdmin(id) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
