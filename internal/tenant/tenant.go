package tenant

// Context identifies the restaurant a staff request acts on. It is attached by
// the auth middleware and passed explicitly into every tenant-scoped service
// call; there is no ambient tenant state.
type Context struct {
	RestaurantID string
	Token        string
}
