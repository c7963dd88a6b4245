// Package ir provides the value types shared by every relq layer.
//
// Predicate literals, model field values and decoded rows are all expressed
// as ir.Value. All other internal packages import ir; ir imports nothing
// internal, so it stays the foundational layer with no import cycles.
//
// Key design constraints:
//   - No float types: numbers are int64 so rendering and hashing are exact
//   - Object keys iterate in RFC 8785 order via SortedKeys
//   - Fingerprints use canonical JSON with NFC-normalized strings
package ir
