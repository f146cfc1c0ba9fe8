/*
Package session provides the SQLite-backed session store for the Calyx
web framework.

A Store owns the database connection and prepared statements; each
request resolves its cookie token to a Session, a token plus a JSON-
serialized values map. Sessions satisfy the view layer's session accessor
interface, so anything placed in a session is ambiently readable from
every rendered view. Expired sessions are reaped with PurgeExpired.
*/
package session
