// Package link implements the datalink ports on top of libpcap via
// gopacket: raw frame transmit and receive handles, interface enumeration,
// and a pcap capture-file sink for accepted frames.
package link
