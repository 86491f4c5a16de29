// Package app wires stores, the API client, and services into the
// dependency graph consumed by the CLI.
package app
