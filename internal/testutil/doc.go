// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing agent contexts and binding them to a branch.
// They are not intended for production usage.
package testutil
