// Package models defines the core domain models for Cartmate.
//
// # Current Models
//
// The following models are actively used:
//   - Item: A single shopping-list entry with status, price, and category
//   - Preferences: Household-level settings (member names, monthly budget)
//   - SyncPayload: Transport-only snapshot exchanged between two households
//
// There are no user accounts: a household is one device plus one partner,
// identified only by display names in Preferences.
//
// # Design Principles
//
// 1. **Wire compatibility**: JSON field names and status literals match the
//    format the original web client persisted and embedded in share links,
//    so old local blobs and old sync tokens keep loading.
// 2. **Immutable identity**: Item.ID is assigned once at creation and never
//    reused; it is the sole merge key during sync.
// 3. **No cross-references**: models hold plain values, not pointers to each
//    other.
package models
