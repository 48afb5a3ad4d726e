// Package types defines shared data structures for the desktop service.
//
// These types cross package boundaries: window and icon state owned by the
// window manager, assistant actions consumed by the dispatcher, notification
// records merged by the poller, and the request/response bodies of the
// desktop API. Domain packages return copies of these structs; callers never
// hold live references into a store.
package types
