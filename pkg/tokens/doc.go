// Package tokens defines the canonical token shape emitted by tokenmap and the
// partial, per-source records it is reconciled from.
//
// A Token is identified by its checksummed address alone: two records with the
// same address are the same logical token and are merged, never duplicated.
// RawToken is the loosely-typed record every source normalizer produces; its
// pointer fields distinguish "absent" from "zero" so that sources can be
// overlaid field by field.
package tokens
