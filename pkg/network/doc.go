/*
Package network sets up and tears down each container's connectivity:
a veth pair, one leg enslaved to the host bridge and the other moved
into a fresh network namespace, addressed deterministically from an
allocated suffix.

# Per-container setup order

	1. create veth pair veth0_<id> <-> veth1_<id>
	2. bring veth0_<id> up, enslave to bridge0
	3. create netns_<id>
	4. move veth1_<id> into netns_<id>
	5. inside netns_<id>: lo up, set veth1_<id> MAC/IP, veth1_<id> up,
	   default route via 10.0.0.1

Teardown reverses this at process exit: delete veth0_<id> (the peer
goes with it) and delete netns_<id>. If any setup step fails, every
resource already acquired for that id is released before returning, in
reverse order.

The host is expected to already have bridge0 configured with
10.0.0.1/24 and NAT/forwarding rules in place; this package only ever
touches per-container veths, namespaces, and the one bridge interface.
*/
package network
