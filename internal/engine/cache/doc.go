// Package cache stores JSON values as files with a TTL.
//
// Every CLI invocation is a fresh process, so the latest training report is
// kept here; `ecofocus model report` reads it back instead of retraining.
// Keys are SHA-256 digests of the inputs that produced the value.
package cache
