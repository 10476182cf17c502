// Package network loads discrete Bayesian networks and answers posterior
// marginal queries over them by variable elimination.
//
// A Definition lists the variables with their state names and the factors
// (conditional probability tables or arbitrary potentials) over them. It is
// usually decoded from YAML:
//
//	name: sprinkler
//	variables:
//	  - {id: 0, name: rain, states: ["no", "yes"]}
//	  - {id: 1, name: wet, states: ["no", "yes"]}
//	factors:
//	  - dims: [0]
//	    values: [0.8, 0.2]
//	  - dims: [0, 1]
//	    values: [0.9, 0.1, 0.2, 0.8]
//
// Values are laid out row-major with the last dimension varying fastest.
// A Network is not safe for concurrent use; clone it or pool instances.
package network
