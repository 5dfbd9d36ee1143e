// Package sanitizer normalizes free-text input before validation and storage.
//
// All functions are idempotent: applying them twice yields the same result as
// applying them once.
package sanitizer
