// Package shape describes Go types to the mapping engine and provides
// the staged builder used to construct values field by field.
//
// A Shape lists a struct's mapped fields in declaration order. Each
// field carries a role deciding how it binds to document structure:
//
//   - ArgRole: filled from a node's positional arguments, in order
//   - PropRole: filled from a named name=value entry
//   - ChildRole: filled from a nested child node matched by name
//
// Roles come from `kdl:"..."` struct tags; untagged scalar fields
// default to PropRole and untagged compound fields to ChildRole.
//
// Partial is the write-side cursor: the engine enters a field, writes
// a scalar or recurses, and exits, mirroring the nesting of the
// document being walked. Finalize checks that every required field was
// entered and reports all missing ones at once.
package shape
