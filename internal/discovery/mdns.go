// ABOUTME: mDNS advertisement and browsing for the audio debug tap
// ABOUTME: Lets a probe on the LAN find a running toy without an address
package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/sirupsen/logrus"

	"github.com/arismusic/aris-go/internal/debugtap"
	"github.com/arismusic/aris-go/internal/version"
)

// ServiceType is the DNS-SD type of the debug tap
const ServiceType = "_aris-debug._tcp"

const queryTimeout = 3 * time.Second

// Config holds discovery configuration
type Config struct {
	Instance string
	Port     int
	Logger   *logrus.Entry
}

// Manager handles mDNS operations
type Manager struct {
	config   Config
	log      *logrus.Entry
	ctx      context.Context
	cancel   context.CancelFunc
	services chan *ServiceInfo
}

// ServiceInfo describes a discovered debug tap
type ServiceInfo struct {
	Name    string
	Host    string
	Port    int
	Path    string
	Version string
}

// Addr returns host:port
func (s *ServiceInfo) Addr() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	log := config.Logger
	if log == nil {
		log = logrus.WithField("component", "discovery")
	}

	return &Manager{
		config:   config,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		services: make(chan *ServiceInfo, 10),
	}
}

func txtRecords() []string {
	return []string{
		"path=" + debugtap.AudioPath,
		"state=" + debugtap.StatePath,
		"version=" + version.Version,
	}
}

// Advertise announces the debug tap until Stop
func (m *Manager) Advertise() error {
	if m.config.Port <= 0 {
		return fmt.Errorf("invalid port %d", m.config.Port)
	}

	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.Instance,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		txtRecords(),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"instance": m.config.Instance,
		"port":     m.config.Port,
		"type":     ServiceType,
	}).Info("Advertising debug tap")

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Browse searches for debug taps until Stop
func (m *Manager) Browse() {
	go m.browseLoop()
}

func (m *Manager) browseLoop() {
	seen := make(map[string]bool)
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)
		done := make(chan struct{})

		go func() {
			defer close(done)
			for entry := range entries {
				info := toServiceInfo(entry)
				if info == nil || seen[info.Addr()] {
					continue
				}
				seen[info.Addr()] = true

				m.log.WithFields(logrus.Fields{"name": info.Name, "addr": info.Addr()}).Info("Discovered debug tap")

				select {
				case m.services <- info:
				case <-m.ctx.Done():
				}
			}
		}()

		params := mdns.DefaultParams(ServiceType)
		params.Timeout = queryTimeout
		params.Entries = entries
		params.DisableIPv6 = true

		if err := mdns.Query(params); err != nil {
			m.log.WithError(err).Debug("mDNS query failed")
		}
		close(entries)
		<-done
	}
}

// toServiceInfo returns nil for entries that are not debug taps
func toServiceInfo(entry *mdns.ServiceEntry) *ServiceInfo {
	if entry == nil || !strings.Contains(entry.Name, ServiceType) {
		return nil
	}

	info := &ServiceInfo{
		Name: strings.TrimSuffix(entry.Name, "."+ServiceType+".local."),
		Port: entry.Port,
		Path: debugtap.AudioPath,
	}

	switch {
	case entry.AddrV4 != nil:
		info.Host = entry.AddrV4.String()
	case entry.AddrV6 != nil:
		info.Host = entry.AddrV6.String()
	default:
		info.Host = strings.TrimSuffix(entry.Host, ".")
	}
	if info.Host == "" {
		return nil
	}

	for _, field := range entry.InfoFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "path":
			info.Path = value
		case "version":
			info.Version = value
		}
	}
	return info
}

// Services returns the channel of discovered debug taps
func (m *Manager) Services() <-chan *ServiceInfo {
	return m.services
}

// Stop stops advertising and browsing
func (m *Manager) Stop() {
	m.cancel()
}

// getLocalIPs returns local IPv4 addresses
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
