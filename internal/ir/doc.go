// Package ir provides the shared domain types for hvprm.
//
// This package contains type definitions and small pure helpers only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// the record types the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Versions are non-negative integers, never strings, once parsed
//   - Library titles are NFC normalized before they are stored or compared
//   - All JSON tags use snake_case
package ir
