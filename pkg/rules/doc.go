// Package rules turns the raw label configuration into a normalized,
// insertion-ordered rule set and evaluates those rules against a pull
// request's changed files.
//
// A label's rules are a sequence of groups combined with OR; within a
// group, "any" patterns need one conforming changed file and "all"
// patterns constrain every changed file. Patterns support glob syntax
// with a leading "!" for negation (see package glob).
package rules
