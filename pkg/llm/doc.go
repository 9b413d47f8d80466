// Package llm is the client for the external text-generation collaborator
// that fills in model SQL bodies and review checklists.
//
// The collaborator has one operation: submit a prompt, get back either
// choices carrying generated text or an error description. The client never
// raises on collaborator failure; callers always receive a Response and
// pick fallback text via Content. Token usage is metered into an
// append-only log when the response reports it.
package llm
