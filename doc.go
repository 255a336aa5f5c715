/*
Package frost persists the state of a component tree across stateless requests.

At the end of a request Freeze walks the tree, finds every branch of stateful
components hanging off the stateless skeleton and writes two values to
storage: the branch descriptors (class tag, name and parent of every node)
and the serialized fields of every stateful node keyed by its path. At the
start of the next request the application rebuilds the stateless skeleton
and Thaw grafts the stored branches back onto it, restores their fields and
deletes the payload.

	engine := frost.New(frost.WithLogger(logger))
	engine.Register("Counter", newCounter)

	root := buildSkeleton(t)
	if _, err := engine.Thaw(ctx, store, t, root); err != nil {
		return err
	}
	// ... handle the request, mutate the tree ...
	_, err := engine.Freeze(ctx, store, t, root)

Cycle bundles the thaw-handle-freeze sequence under a session lock.
*/
package frost
