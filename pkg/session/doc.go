/*
Package session serializes freeze/thaw request cycles per session.

A Manager hands out session-scoped views of one shared Storage backend
(keys live under "session/<id>/") and guards each cycle with an in-process
mutex, optionally backed by a distributed lock so that several replicas can
share the same backend.
*/
package session
