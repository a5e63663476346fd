/*
Package inspect implements spec.md §4.H: enumerating images and
containers and reading a container's whole stored log. It is a thin,
read-only wrapper over pkg/store's directory-glob listing -- the
filesystem layout is the database, and this package is what keeps
everything else oblivious to that fact.
*/
package inspect
