package network

import (
	"fmt"
	"net"
	"os"
	"runtime"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"

	"github.com/kanelabs/bocker/pkg/log"
	"github.com/kanelabs/bocker/pkg/storage"
	"github.com/kanelabs/bocker/pkg/types"
)

const (
	bridgeName  = "bridge0"
	bridgeIP    = "10.0.0.1"
	macPrefix   = "02:42:ac:11:00"
	defaultMask = 24
)

// Ledger is the subset of *storage.Ledger the Manager needs: an
// allocator handing out the numeric ip/mac suffix for a container id.
type Ledger interface {
	Allocate(id string) (byte, error)
	Release(id string) error
}

// Manager sets up and tears down one veth pair + network namespace
// per container, enslaving the host leg to the shared bridge and
// addressing the namespaced leg deterministically from an allocated
// suffix.
type Manager struct {
	ledger Ledger
}

// New returns a Manager that allocates suffixes from ledger.
func New(ledger *storage.Ledger) *Manager {
	return &Manager{ledger: ledger}
}

func vethNames(id string) (host, peer string) {
	return "veth0_" + id, "veth1_" + id
}

func nsName(id string) string {
	return "netns_" + id
}

// nsRunDir is where iproute2-compatible tooling (and vishvananda/netns)
// bind-mounts named network namespaces.
const nsRunDir = "/var/run/netns"

// NSPath returns the bind-mount path of a container's network
// namespace, for callers (pkg/sandbox) that need to open and setns
// into it directly rather than through this package's own Setup.
func NSPath(id string) string {
	return nsRunDir + "/" + nsName(id)
}

// Setup performs the sequence in spec.md §4.F: veth pair, bridge
// enslavement, namespace creation, namespace move, and in-namespace
// addressing. Any failure releases every resource already acquired
// for id before returning.
func (m *Manager) Setup(id string) error {
	logger := log.WithContainerID(id)
	hostSide, peerSide := vethNames(id)

	suffix, err := m.ledger.Allocate(id)
	if err != nil {
		return err
	}

	veth := &netlink.Veth{
		LinkAttrs: netlink.LinkAttrs{Name: hostSide},
		PeerName:  peerSide,
	}
	if err := netlink.LinkAdd(veth); err != nil {
		m.ledger.Release(id)
		return fmt.Errorf("%w: create veth pair %s/%s: %v", types.ErrNetworkSetupFailure, hostSide, peerSide, err)
	}

	hostLink, err := netlink.LinkByName(hostSide)
	if err != nil {
		m.teardownVeth(hostSide)
		m.ledger.Release(id)
		return fmt.Errorf("%w: lookup %s: %v", types.ErrNetworkSetupFailure, hostSide, err)
	}
	if err := netlink.LinkSetUp(hostLink); err != nil {
		m.teardownVeth(hostSide)
		m.ledger.Release(id)
		return fmt.Errorf("%w: up %s: %v", types.ErrNetworkSetupFailure, hostSide, err)
	}

	bridge, err := netlink.LinkByName(bridgeName)
	if err != nil {
		m.teardownVeth(hostSide)
		m.ledger.Release(id)
		return fmt.Errorf("%w: bridge %s not found: %v", types.ErrNetworkSetupFailure, bridgeName, err)
	}
	if err := netlink.LinkSetMaster(hostLink, bridge); err != nil {
		m.teardownVeth(hostSide)
		m.ledger.Release(id)
		return fmt.Errorf("%w: enslave %s to %s: %v", types.ErrNetworkSetupFailure, hostSide, bridgeName, err)
	}

	// netns.NewNamed switches the *calling OS thread* into the new
	// namespace and doesn't restore it; the peer lookup and move below
	// must run back in the host namespace, on that same thread, or an
	// unpinned goroutine could run them on a thread the Go scheduler
	// never moved, finding nothing. Pin the thread for the rest of
	// Setup so every step below runs in the namespace this code
	// expects it to.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	origNS, err := netns.Get()
	if err != nil {
		m.teardownVeth(hostSide)
		m.ledger.Release(id)
		return fmt.Errorf("%w: get calling netns: %v", types.ErrNetworkSetupFailure, err)
	}
	defer origNS.Close()

	ns, err := netns.NewNamed(nsName(id))
	if err != nil {
		m.teardownVeth(hostSide)
		m.ledger.Release(id)
		return fmt.Errorf("%w: create netns %s: %v", types.ErrNetworkSetupFailure, nsName(id), err)
	}
	defer ns.Close()

	if err := netns.Set(origNS); err != nil {
		m.teardownNetns(hostSide, id)
		m.ledger.Release(id)
		return fmt.Errorf("%w: restore calling netns: %v", types.ErrNetworkSetupFailure, err)
	}

	peerLink, err := netlink.LinkByName(peerSide)
	if err != nil {
		m.teardownNetns(hostSide, id)
		m.ledger.Release(id)
		return fmt.Errorf("%w: lookup %s: %v", types.ErrNetworkSetupFailure, peerSide, err)
	}
	if err := netlink.LinkSetNsFd(peerLink, int(ns)); err != nil {
		m.teardownNetns(hostSide, id)
		m.ledger.Release(id)
		return fmt.Errorf("%w: move %s into %s: %v", types.ErrNetworkSetupFailure, peerSide, nsName(id), err)
	}

	if err := m.configurePeer(ns, peerSide, suffix); err != nil {
		m.teardownNetns(hostSide, id)
		m.ledger.Release(id)
		return err
	}

	logger.Info().Str("veth_host", hostSide).Str("veth_peer", peerSide).Uint8("suffix", suffix).Msg("network attached")
	return nil
}

// configurePeer enters ns on the calling OS thread and brings up lo
// and the moved veth peer, addressing it with the IP/MAC derived from
// suffix and installing the default route via the bridge.
func (m *Manager) configurePeer(ns netns.NsHandle, peerSide string, suffix byte) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	callerNS, err := netns.Get()
	if err != nil {
		return fmt.Errorf("%w: get calling netns: %v", types.ErrNetworkSetupFailure, err)
	}
	defer callerNS.Close()

	if err := netns.Set(ns); err != nil {
		return fmt.Errorf("%w: enter netns: %v", types.ErrNetworkSetupFailure, err)
	}
	defer netns.Set(callerNS)

	lo, err := netlink.LinkByName("lo")
	if err != nil {
		return fmt.Errorf("%w: lookup lo in netns: %v", types.ErrNetworkSetupFailure, err)
	}
	if err := netlink.LinkSetUp(lo); err != nil {
		return fmt.Errorf("%w: up lo: %v", types.ErrNetworkSetupFailure, err)
	}

	peer, err := netlink.LinkByName(peerSide)
	if err != nil {
		return fmt.Errorf("%w: lookup %s in netns: %v", types.ErrNetworkSetupFailure, peerSide, err)
	}

	mac, err := net.ParseMAC(fmt.Sprintf("%s:%02x", macPrefix, suffix))
	if err != nil {
		return fmt.Errorf("%w: parse mac: %v", types.ErrNetworkSetupFailure, err)
	}
	if err := netlink.LinkSetHardwareAddr(peer, mac); err != nil {
		return fmt.Errorf("%w: set mac on %s: %v", types.ErrNetworkSetupFailure, peerSide, err)
	}

	addr, err := netlink.ParseAddr(fmt.Sprintf("10.0.0.%d/%d", suffix, defaultMask))
	if err != nil {
		return fmt.Errorf("%w: parse address: %v", types.ErrNetworkSetupFailure, err)
	}
	if err := netlink.AddrAdd(peer, addr); err != nil {
		return fmt.Errorf("%w: add address to %s: %v", types.ErrNetworkSetupFailure, peerSide, err)
	}

	if err := netlink.LinkSetUp(peer); err != nil {
		return fmt.Errorf("%w: up %s: %v", types.ErrNetworkSetupFailure, peerSide, err)
	}

	route := &netlink.Route{
		LinkIndex: peer.Attrs().Index,
		Gw:        net.ParseIP(bridgeIP),
	}
	if err := netlink.RouteAdd(route); err != nil {
		return fmt.Errorf("%w: add default route via %s: %v", types.ErrNetworkSetupFailure, bridgeIP, err)
	}

	return nil
}

// Teardown deletes the host veth end (its peer goes with it) and the
// container's network namespace, then releases the suffix allocation.
// Called once, at the contained process's exit.
func (m *Manager) Teardown(id string) error {
	hostSide, _ := vethNames(id)
	var firstErr error

	if link, err := netlink.LinkByName(hostSide); err == nil {
		if err := netlink.LinkDel(link); err != nil {
			firstErr = fmt.Errorf("%w: delete %s: %v", types.ErrNetworkSetupFailure, hostSide, err)
		}
	}
	if err := netns.DeleteNamed(nsName(id)); err != nil && !os.IsNotExist(err) && firstErr == nil {
		firstErr = fmt.Errorf("%w: delete netns %s: %v", types.ErrNetworkSetupFailure, nsName(id), err)
	}
	if err := m.ledger.Release(id); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (m *Manager) teardownVeth(hostSide string) {
	if link, err := netlink.LinkByName(hostSide); err == nil {
		netlink.LinkDel(link)
	}
}

func (m *Manager) teardownNetns(hostSide, id string) {
	m.teardownVeth(hostSide)
	netns.DeleteNamed(nsName(id))
}
