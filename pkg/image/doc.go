/*
Package image acquires images from an HTTP origin or a local
directory and materializes them as flattened store volumes.

A pull fetches "https://<registry>/<name>_<tag>.tar.gz", extracts it
into a scratch directory, locates its manifest.json (depth-first, first
hit wins), and applies each layer tar in order — later layers
overwrite earlier ones — before handing the flattened tree to the
store as a new image volume. Every scratch directory is removed on
every exit path, success or failure.

An import takes a local directory instead of a network archive and
snapshots it directly; this shares the same store-materialization path
as a pull, just without steps 1-5 of the pull contract.
*/
package image
