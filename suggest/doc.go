// Package suggest provides keystroke-driven autocomplete on top of the
// result cache: a short debounce window coalesces rapid query changes,
// a cache hit for the settled query short-circuits the fetch entirely,
// and a superseded query cancels its in-flight fetch instead of letting
// a stale response land after a newer one.
package suggest
