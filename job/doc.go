// Package job submits generation requests to the backend job service
// and polls them to a terminal state.
//
// A submission yields a Record that moves Created -> Polling ->
// Done|Error. Done and Error are terminal: further polls are no-ops.
// Thread continuity (the backend's conversation identifier) is retained
// per logical conversation by a ThreadStore and passed on follow-up
// submissions so the backend can condition on prior turns.
package job
