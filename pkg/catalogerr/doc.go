/*
Package catalogerr defines the closed error taxonomy the catalog engine
reports to callers.

The engine never returns a bare error from the seven kinds below without
tagging it, so callers can discriminate with errors.As instead of matching
on message text:

	CoerceError        - a value cannot be converted to the target PropertyType
	SchemaError        - duplicate name, mutation of an immutable definition, kind mismatch
	NotFound           - missing AspectDef, hierarchy, tree node, or catalog
	StorageError       - SQL failure, constraint violation, connection loss
	TransactionAborted - explicit rollback during save
	WireFormatError    - malformed JSON, unknown type code, unresolved UUID
	Invariant          - a logic-bug signal; should terminate, not be repaired

Propagation follows spec.md §7: Coerce/Schema/WireFormat errors carry no
side effects and are returned immediately. Storage/TransactionAborted cause
the caller (pkg/storage) to roll back before returning. Invariant errors
also surface to the caller, and pkg/log is expected to receive a structured
entry alongside them for post-mortem.
*/
package catalogerr
