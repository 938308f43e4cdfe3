package repositories

import "errors"

// Sentinel errors shared by all repositories. Handlers translate these into
// HTTP status codes; anything else is treated as an internal error.
var (
	ErrNotFound         = errors.New("record not found")
	ErrSelfFollow       = errors.New("users cannot follow themselves")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrAlreadySaved     = errors.New("post already saved")
	ErrAlreadyTagged    = errors.New("entity already carries this tag")
	ErrAlreadyRequested = errors.New("publication already requested")
	ErrNotOwner         = errors.New("actor does not own this record")
	ErrCollectionInUse  = errors.New("collection is still referenced by posts")
)
