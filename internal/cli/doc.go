// Package cli wires the gen-invoice command tree: argument and flag parsing,
// settings precedence, data directory bootstrapping and the user facing
// messages printed around a generator run.
package cli
