// Package currency formats monetary values for display. Every formatting call
// receives an explicit Convention (language, currency unit, symbol, precision)
// so that documents rendered concurrently under different locales never share
// mutable state.
package currency
