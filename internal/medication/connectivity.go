package medication

import (
	"net"
	"time"

	"github.com/tubocare/medtrack/pkg/interfaces"
	"github.com/tubocare/medtrack/pkg/logger"
)

// ProbeConnectivityChecker reports network reachability by dialing a
// configured endpoint. Writes consult it first and skip entirely when the
// network is down rather than failing mid-flight; there is no queued
// retry.
type ProbeConnectivityChecker struct {
	probeAddr string
	timeout   time.Duration
	logger    *logger.Logger
}

// NewProbeConnectivityChecker creates a new connectivity checker
func NewProbeConnectivityChecker(probeAddr string, timeout time.Duration, log *logger.Logger) interfaces.ConnectivityChecker {
	return &ProbeConnectivityChecker{
		probeAddr: probeAddr,
		timeout:   timeout,
		logger:    log,
	}
}

// IsReachable dials the probe endpoint and reports success.
func (c *ProbeConnectivityChecker) IsReachable() bool {
	conn, err := net.DialTimeout("tcp", c.probeAddr, c.timeout)
	if err != nil {
		c.logger.Warnf("Connectivity probe to %s failed: %v", c.probeAddr, err)
		return false
	}
	conn.Close()
	return true
}

// AlwaysReachable is the checker used when the probe is disabled.
type AlwaysReachable struct{}

// IsReachable always reports true.
func (AlwaysReachable) IsReachable() bool { return true }
