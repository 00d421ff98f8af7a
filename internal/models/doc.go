// Package models defines the core domain models for splitogram.
//
// # Money
//
// All amounts are int64 values in micro-USDT (1 USDT = 1_000_000). Nothing in
// the domain uses floating point.
//
// # Models
//
//   - User: an account, identified by the id carried in the session token
//   - Group / Member: a set of users sharing expenses; membership is immutable
//   - Expense / ExpenseShare: a payment and how it is split; shares always sum
//     to the expense amount
//   - Settlement: a proposed transfer between two members and its confirmation
//     state (see SettlementStatus)
//   - Ledger: a consistent snapshot of everything that moves a group's balances
//
// Relationships use ID strings instead of pointers.
package models
