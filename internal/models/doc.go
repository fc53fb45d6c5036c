// Package models defines the core domain records for the expense ledger.
//
// The central invariant lives in BalanceEntry: for every group and every
// unordered pair of users there is at most one entry, stored with the pair
// in canonical order (smaller ID first) and a signed net amount. Positive
// means UserA owes UserB. An entry whose magnitude falls below the money
// epsilon is deleted rather than stored as zero.
//
// Relationships use ID strings instead of pointers to avoid circular
// object graphs; the storage layer resolves IDs to full records on demand.
package models
