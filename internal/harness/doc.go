// Package harness runs filter conformance scenarios.
//
// A scenario pairs a filter document with a set of records and states what
// the compiled filter must do with them. Scenarios run against the demo
// record type sample.Customer.
//
// # Scenario Format
//
//	name: adults_in_france
//	description: "Age range and country"
//	options:
//	  case_insensitive: true
//	filter:
//	  $predicate-unit-type: compound-predicate
//	  LogicalOperator: And
//	  AtomicPredicates:
//	    - $predicate-unit-type: atomic-predicate
//	      Member: Age
//	      Operator: greater-than-or-equal
//	      Value: 25
//	records:            # optional, defaults to sample.Customers()
//	  - {name: Ann, age: 30}
//	assertions:
//	  - type: matches
//	    names: [Ann]
//
// # Assertion Types
//
//   - matches: the matching records, by name and in record order, are exactly names
//   - rejects: none of names match
//   - match_count: exactly count records match
//   - expression: the printed expression equals expression
//   - compile_error: compilation fails with an error containing contains
//
// The filter is checked against the CUE schema, decoded, and compiled both
// as an expression and as a closure; the two must agree on every record.
package harness
