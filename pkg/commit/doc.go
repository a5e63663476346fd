/*
Package commit implements spec.md §4.I: promoting a container's
current state to an image identity by destroying the target image's
volume (and best-effort detaching its cgroup, if one happens to exist)
and snapshotting the container volume in its place. There is no
rollback -- the prior contents of the target image are gone the moment
this succeeds, matching spec.md's Open Question #4 decision in
DESIGN.md.
*/
package commit
