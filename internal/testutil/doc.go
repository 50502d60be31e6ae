// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing messages, scripted agents and
// selectors. These helpers depend on core only so any package can use them
// in its tests. They are not intended for production usage.
package testutil
