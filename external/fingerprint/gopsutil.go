package fingerprint

import (
	"log/slog"
	"math"
	"net"
	"strconv"

	"github.com/foxseedlab/dove/internal/fingerprint"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Probe reads host properties through gopsutil. Only values that do not
// change while the host is running are collected; current temperatures,
// load and uptime are deliberately ignored.
type Probe struct {
	kernelArch   func() (string, error)
	hostInfo     func() (*host.InfoStat, error)
	virtualMem   func() (*mem.VirtualMemoryStat, error)
	temperatures func() ([]host.TemperatureStat, error)
	interfaces   func() (psnet.InterfaceStatList, error)
}

func NewProbe() fingerprint.Provider {
	return &Probe{
		kernelArch:   host.KernelArch,
		hostInfo:     host.Info,
		virtualMem:   mem.VirtualMemory,
		temperatures: host.SensorsTemperatures,
		interfaces:   psnet.Interfaces,
	}
}

func (p *Probe) Summary() string {
	return p.Host().String()
}

func (p *Probe) Host() fingerprint.Host {
	var h fingerprint.Host

	if arch, err := p.kernelArch(); err == nil {
		h.Arch = arch
	} else {
		slog.Debug("fingerprint: cpu architecture unavailable", "error", err)
	}

	if info, err := p.hostInfo(); err == nil && info != nil {
		h.OSName = info.OS
		h.Distribution = info.Platform
	} else {
		slog.Debug("fingerprint: host info unavailable", "error", err)
	}

	if vm, err := p.virtualMem(); err == nil && vm != nil {
		h.TotalMemory = strconv.FormatUint(vm.Total, 10)
	} else {
		slog.Debug("fingerprint: memory info unavailable", "error", err)
	}

	// SensorsTemperatures reports partial results together with warnings.
	sensors, err := p.temperatures()
	if err == nil || len(sensors) > 0 {
		h.ThermalSensors = strconv.Itoa(len(sensors))
		h.CriticalTempSum = strconv.FormatFloat(criticalSum(sensors), 'f', 2, 64)
	} else {
		slog.Debug("fingerprint: thermal sensors unavailable", "error", err)
	}

	if ifaces, err := p.interfaces(); err == nil {
		h.MACByteSum = strconv.FormatUint(macByteSum(ifaces), 10)
	} else {
		slog.Debug("fingerprint: network interfaces unavailable", "error", err)
	}

	return h
}

func criticalSum(sensors []host.TemperatureStat) float64 {
	var sum float64
	for _, s := range sensors {
		if math.IsNaN(s.Critical) || math.IsInf(s.Critical, 0) {
			continue
		}
		sum += s.Critical
	}
	return sum
}

func macByteSum(ifaces psnet.InterfaceStatList) uint64 {
	var sum uint64
	for _, iface := range ifaces {
		if iface.HardwareAddr == "" {
			continue
		}
		mac, err := net.ParseMAC(iface.HardwareAddr)
		if err != nil {
			continue
		}
		for _, b := range mac {
			sum += uint64(b)
		}
	}
	return sum
}
