// Package fixture loads YAML descriptions of a library graph and seeds them
// into a store.
//
// Fixtures are decoded strictly (unknown fields are rejected), checked
// against an embedded CUE schema, then checked for dangling keys before
// anything is written. Libraries are referenced by a fixture-local key,
// never by database id, so the same fixture can seed any empty store.
//
// Example:
//
//	name: single dependant
//	libraries:
//	  - key: base
//	  - key: child
//	    title: Child library
//	    version: 1.0.0
//	    dependencies:
//	      - library: base
//	activities:
//	  - name: Quiz
//	    library: base
package fixture
