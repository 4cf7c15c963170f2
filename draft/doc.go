// Package draft persists work-in-progress form state so a reload or
// crash restores what the user was composing. Drafts are keyed by a
// caller-chosen identity within a storage namespace, age out after a
// TTL, and save through a short debounce so rapid edits coalesce into
// one write.
package draft
