/*
Package session serializes access to engine sessions and persists their snapshots.

A Manager holds one reference-counted local lock per session ID and, when configured,
a distributed lock shared by every replica. Snapshots are stored through a
ports.SessionStore and rebuilt with Restore, which decodes each field back into the
type of its engine-declared default.
*/
package session
