// Package broadcast streams world snapshots to websocket clients.
//
// Every message is a JSON envelope {"type": ..., "data": ...}. A client
// first receives a "system" message carrying its id, then the latest
// snapshot if one exists, then a "sync" message per step.
package broadcast
