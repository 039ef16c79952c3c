// Package jsondom provides the JSON tree model stored in MySQL json columns.
//
// A Document wraps a root Value. Values are a sealed set of element types:
// Null, String, Number, Bool, Array and Object. Numbers keep their literal
// text so that integers beyond 2^53 survive a parse/write round trip.
//
// MarshalCanonical is the only writer used for storage. Its output is the
// comparison key for change tracking, so two trees are equal exactly when
// their canonical bytes are equal:
//   - object keys sorted by UTF-16 code units; keys equal after NFC are an error
//   - no insignificant whitespace, no HTML escaping
//   - strings NFC normalized
//   - numbers keep their exact value: integers as digits, shortest float64 text
//     when that text is exact, exponent form otherwise
package jsondom
