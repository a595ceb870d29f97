// Package validation provides input validation utilities for Lanyard.
//
// It covers the two classes of user-provided input the application accepts on
// trust boundaries:
//
//   - Identifiers: event slugs, form field names, and credential keys follow a
//     single naming convention enforced here.
//   - File paths: event definition import/export accepts user paths that must
//     not escape the configuration directory (directory traversal, absolute
//     path injection, symlink escapes).
//
// All functions are safe for concurrent use.
package validation
