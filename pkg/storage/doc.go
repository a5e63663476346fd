/*
Package storage persists the one piece of cluster-wide state bocker's
Network Manager needs across process invocations: which ip/mac suffix
each container id currently holds, so that two containers never
collide on 10.0.0.<suffix> even if their ids happen to derive the same
suffix naively.

A single BoltDB database at <store_root>/.bocker-network.db holds two
buckets: by_id (id -> suffix) and its reverse, by_suffix
(suffix -> id), for O(1) conflict checks. Suffixes are handed out from a free list over
[2, 254]; 0 is never issued (reserved, first-hop-safe) and 1 is
reserved for the bridge's own address.
*/
package storage
