package link

import (
	"fmt"
	"io"
	"net"

	"github.com/google/gopacket/pcap"

	"github.com/bft-labs/nethex/internal/domain"
)

// Interface describes a capture-capable network device.
type Interface struct {
	Name        string
	Description string
	Addresses   []net.IPNet
}

// findAllDevs is replaced in tests.
var findAllDevs = pcap.FindAllDevs

// List returns the devices libpcap can open.
func List() ([]Interface, error) {
	devs, err := findAllDevs()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	out := make([]Interface, 0, len(devs))
	for _, d := range devs {
		iface := Interface{Name: d.Name, Description: d.Description}
		for _, a := range d.Addresses {
			iface.Addresses = append(iface.Addresses, net.IPNet{IP: a.IP, Mask: a.Netmask})
		}
		out = append(out, iface)
	}
	return out, nil
}

// Lookup resolves name against the device list.
// An unknown name yields an error wrapping domain.ErrInterfaceNotFound.
func Lookup(name string) (Interface, error) {
	ifaces, err := List()
	if err != nil {
		return Interface{}, err
	}
	for _, iface := range ifaces {
		if iface.Name == name {
			return iface, nil
		}
	}
	return Interface{}, fmt.Errorf("%w: %q", domain.ErrInterfaceNotFound, name)
}

// WriteList prints the device list in the listing format of the CLI.
func WriteList(w io.Writer, ifaces []Interface) error {
	if _, err := fmt.Fprintln(w, "Detected Network Interfaces:"); err != nil {
		return err
	}
	for _, iface := range ifaces {
		if _, err := fmt.Fprintln(w, iface.Name); err != nil {
			return err
		}
		for _, addr := range iface.Addresses {
			if _, err := fmt.Fprintf(w, "  IP: %s\n", formatAddr(addr)); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatAddr(a net.IPNet) string {
	if a.Mask == nil {
		return a.IP.String()
	}
	return a.String()
}
