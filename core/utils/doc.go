// Package utils provides loose scalar conversions for upstream payloads that
// do not agree with themselves on types (numbers sent as strings, flags sent
// as "1", lists sent as a single comma separated string).
package utils
