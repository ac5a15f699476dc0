// Package ir is the canonical value model used to fingerprint predicate
// trees.
//
// A tree is lowered to an IRObject and written with MarshalCanonical, so
// two trees with the same content always produce the same bytes and hash.
//
// Key design constraints:
//   - NO float types anywhere - numeric filter values are carried as text
//   - NO null - absent fields are omitted instead
//   - Object keys ordered by UTF-16 code units (RFC 8785)
//   - Strings NFC normalized
package ir
