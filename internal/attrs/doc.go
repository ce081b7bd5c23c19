// Package attrs implements the attribute manager (C4): the repository's
// ".gitattributes"-style file that tells the host VCS which paths to
// route through the seekgits filter and diff drivers.
//
// Matching is by exact first whitespace token, never substring — a
// line for "secrets/.env" must never match a lookup for ".env", and a
// lookup for "secrets/.env" must never match a line for
// "old/secrets/.env" that happens to end with the same suffix.
package attrs
