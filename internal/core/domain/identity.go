package domain

import "strings"

// NormalizeIdentity lowercases and trims an identity string. This is the
// plain form compared during identity search.
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSocialIdentity reduces a social handle to its bare form so that a
// handle, a profile URL, and a stored id all compare equal:
//
//	"@user.name"                        -> "user.name"
//	"https://example.com/user.name/"    -> "user.name"
//	"HTTPS://WWW.example.com/user.name" -> "user.name"
//	"user.name"                         -> "user.name"
//
// It strips a leading "@", the scheme and "www." prefix, anything after a
// "#" or "?", trailing slashes, and — when several "/"-separated segments
// remain — keeps only the last one (identities were sometimes stored as full
// profile URLs).
func NormalizeSocialIdentity(s string) string {
	s = NormalizeIdentity(s)
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "#?"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if segments := strings.Split(s, "/"); len(segments) > 1 {
		s = segments[len(segments)-1]
	}
	return s
}
