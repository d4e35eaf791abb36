// Package intcap implements an append-only, double-entry ledger for
// intelligence capital: capacity produced by inference execution and
// carried as a balance-sheet asset.
//
// The engine is organized around a small set of immutable facts. A
// CapitalEvent records one discrete economic action on an asset
// (capitalization, allocation, utilization, depreciation, retirement or
// reconciliation). Every event is wrapped in exactly one Entry and
// appended to the Ledger, the sole source of truth: entries carry a
// gapless global sequence number and a digest chained to the previous
// entry, so any retroactive edit is detectable.
//
// Everything else is derived. Journal entries are computed from ledger
// entries by a fixed chart mapping and always balance. Book values are
// recomputable from the event chain alone. Capital proofs package the
// entry references and an independent recomputation of any reported
// figure so that downstream auditors can check it without trusting the
// store.
//
// All amounts are fixed-point decimals; the depreciation engine is a
// pure function of its inputs and never reads the clock, which makes
// every financial outcome reproducible bit for bit over arbitrary
// replay windows.
package intcap
