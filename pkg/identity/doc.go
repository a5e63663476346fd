/*
Package identity generates the short, store-scoped ids bocker assigns
to images and containers: "img_<n>" and "ps_<n>" for some n drawn at
random. An id is free to use the moment nothing in the store claims it
already; there is no reservation step, so callers must create the
volume under that id promptly after NewID returns.
*/
package identity
