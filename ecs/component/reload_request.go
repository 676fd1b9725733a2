package component

// ReloadRequest asks the persistence system to rebuild the current level.
// Create it on a short-lived entity; the request entity is destroyed when
// handled.
type ReloadRequest struct{}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
