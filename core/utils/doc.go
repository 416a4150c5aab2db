// Package utils provides common utility functions shared across cogsaver.
// It includes the scalar coercion used when editing state fields and helpers
// for rendering loosely typed values, logic that doesn't fit into
// domain-specific packages.
package utils
